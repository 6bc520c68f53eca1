package property_api_client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"listing-web/internal/contextkeys"
	"listing-web/internal/contracts"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxErrorBody = 512

// PropertyAPIClient - клиент property API, реализует PropertySourcePort.
type PropertyAPIClient struct {
	baseURL    string // например, "http://property-api:8082"
	httpClient *http.Client
}

func NewPropertyAPIClient(baseURL string, timeout time.Duration) *PropertyAPIClient {
	return &PropertyAPIClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// doRequest выполняет GET и пробрасывает X-Trace-ID из контекста
func (c *PropertyAPIClient) doRequest(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set("X-Trace-ID", traceID)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to property API failed: %w", err)
	}
	return resp, nil
}

func unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("property API returned status %d, body: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// ListProperties реализует PropertySourcePort. Записи, не прошедшие схему, пропускаются.
func (c *PropertyAPIClient) ListProperties(ctx context.Context) ([]domain.PropertyRecord, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PropertyAPIClient",
		"method":    "ListProperties",
	})

	resp, err := c.doRequest(ctx, "/api/v1/properties")
	if err != nil {
		clientLogger.Error("Failed to perform request to property API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := unexpectedStatus(resp)
		clientLogger.Error("Received non-OK response from property API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var apiResponse listResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		clientLogger.Error("Failed to decode response from property API", err, nil)
		return nil, fmt.Errorf("failed to decode property list: %w", err)
	}

	records := make([]domain.PropertyRecord, 0, len(apiResponse.Data))
	for i, raw := range apiResponse.Data {
		record, err := decodeRecord(raw)
		if err != nil {
			clientLogger.Warn("Skipping property that does not match schema", port.Fields{"index": i, "error": err.Error()})
			continue
		}
		records = append(records, record)
	}

	clientLogger.Info("Property list received", port.Fields{
		"received": len(apiResponse.Data),
		"accepted": len(records),
	})
	return records, nil
}

// GetByID реализует PropertySourcePort. 404 и невалидная запись - domain.ErrPropertyNotFound.
func (c *PropertyAPIClient) GetByID(ctx context.Context, id string) (*domain.PropertyRecord, error) {
	clientLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PropertyAPIClient",
		"method":      "GetByID",
		"property_id": id,
	})

	resp, err := c.doRequest(ctx, "/api/v1/properties/"+url.PathEscape(id))
	if err != nil {
		clientLogger.Error("Failed to perform request to property API", err, nil)
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrPropertyNotFound
	default:
		err := unexpectedStatus(resp)
		clientLogger.Error("Received non-OK response from property API", err, port.Fields{"status_code": resp.StatusCode})
		return nil, err
	}

	var apiResponse itemResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		clientLogger.Error("Failed to decode response from property API", err, nil)
		return nil, fmt.Errorf("failed to decode property: %w", err)
	}
	if len(apiResponse.Data) == 0 || string(apiResponse.Data) == "null" {
		return nil, domain.ErrPropertyNotFound
	}

	record, err := decodeRecord(apiResponse.Data)
	if err != nil {
		clientLogger.Warn("Property does not match schema", port.Fields{"error": err.Error()})
		return nil, fmt.Errorf("%w: %v", domain.ErrPropertyNotFound, err)
	}
	return &record, nil
}

func decodeRecord(raw json.RawMessage) (domain.PropertyRecord, error) {
	if err := contracts.ValidateRecord(raw); err != nil {
		return domain.PropertyRecord{}, err
	}
	var dto propertyDTO
	if err := json.Unmarshal(raw, &dto); err != nil {
		return domain.PropertyRecord{}, fmt.Errorf("failed to unmarshal property: %w", err)
	}
	return dto.toDomain(), nil
}
