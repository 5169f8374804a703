// Package api embeds the OpenAPI document of the HTTP interface.
package api

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var spec []byte

var registerOnce sync.Once

// Load parses and validates the embedded document.
func Load(ctx context.Context) (*openapi3.T, error) {
	doc, err := openapi3.NewLoader().LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}

type swaggerDoc string

func (d swaggerDoc) ReadDoc() string {
	return string(d)
}

// RegisterSwagger publishes doc for the swagger UI handler. Only the first
// call registers; swag panics on duplicate names.
func RegisterSwagger(doc *openapi3.T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	registerOnce.Do(func() {
		swag.Register(swag.Name, swaggerDoc(raw))
	})
	return nil
}
