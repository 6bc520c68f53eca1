package domain

import "errors"

var (
	// ErrNoImages возвращается при попытке создать карусель без изображений.
	ErrNoImages = errors.New("carousel requires at least one image")

	// ErrPropertyNotFound - объект с таким идентификатором не найден в источнике данных.
	ErrPropertyNotFound = errors.New("property not found")

	// ErrInvalidRecord - запись не проходит минимальную проверку (нет id или изображений).
	ErrInvalidRecord = errors.New("invalid property record")
)
