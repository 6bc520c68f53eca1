package contracts

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"path"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	PropertyRecordSchema = "PropertyRecord"
	PropertyUpdatedEvent = "PropertyUpdatedEvent"
	CurrentSchemaVersion = "1.0.0"

	schemaRootDir   = "schemas"
	eventsSchemaDir = "events"
)

//go:embed schemas
var schemaFS embed.FS

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	if err := loadSchemas(); err != nil {
		log.Fatalf("failed to load schemas: %v", err)
	}
}

// loadSchemas компилирует все schemas/<kind>/<name>/v<major>.json.
// Ключ: "PropertyRecord/1.0.0" для records, "PropertyUpdatedEvent/1.0.0" для events.
func loadSchemas() error {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	compiler.AssertFormat = true

	title := cases.Title(language.Und)

	return fs.WalkDir(schemaFS, schemaRootDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".json" {
			return nil
		}

		// schemas/events/property-updated/v1.json
		parts := strings.Split(p, "/")
		if len(parts) != 4 {
			return fmt.Errorf("unexpected schema path %s", p)
		}
		kind, name, file := parts[1], parts[2], parts[3]

		var b strings.Builder
		for _, word := range strings.Split(name, "-") {
			b.WriteString(title.String(word))
		}
		if kind == eventsSchemaDir {
			b.WriteString("Event")
		}
		major := strings.TrimSuffix(strings.TrimPrefix(file, "v"), ".json")
		key := fmt.Sprintf("%s/%s.0.0", b.String(), major)

		data, err := schemaFS.ReadFile(p)
		if err != nil {
			return err
		}
		if err := compiler.AddResource(p, bytes.NewReader(data)); err != nil {
			return fmt.Errorf("failed to add schema resource %s: %w", p, err)
		}
		schema, err := compiler.Compile(p)
		if err != nil {
			return fmt.Errorf("failed to compile schema %s: %w", p, err)
		}

		compiledSchemas[key] = schema
		return nil
	})
}

// ValidateEvent принимает тело сообщения и его метаданные и проверяет по схеме
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	return validate(eventType, eventVersion, body)
}

// ValidateRecord проверяет одну запись объявления из внешнего API
func ValidateRecord(body []byte) error {
	return validate(PropertyRecordSchema, CurrentSchemaVersion, body)
}

func validate(name, version string, body []byte) error {
	key := fmt.Sprintf("%s/%s", name, version)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema '%s' version '%s' not found", name, version)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("body is not a valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}

// Schemas возвращает ключи загруженных схем
func Schemas() []string {
	keys := make([]string, 0, len(compiledSchemas))
	for k := range compiledSchemas {
		keys = append(keys, k)
	}
	return keys
}
