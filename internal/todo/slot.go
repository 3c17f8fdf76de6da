package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed slot.schema.json
var slotSchemaJSON []byte

const slotSchemaURL = "https://nibzard.dev/todo/slot.schema.json"

var (
	slotSchemaOnce sync.Once
	slotSchema     *jsonschema.Schema
	slotSchemaErr  error
)

// SlotSchema returns the raw JSON Schema for a slot payload.
func SlotSchema() []byte {
	return bytes.Clone(slotSchemaJSON)
}

func compiledSlotSchema() (*jsonschema.Schema, error) {
	slotSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		if err := compiler.AddResource(slotSchemaURL, bytes.NewReader(slotSchemaJSON)); err != nil {
			slotSchemaErr = fmt.Errorf("load slot schema: %w", err)
			return
		}
		slotSchema, slotSchemaErr = compiler.Compile(slotSchemaURL)
		if slotSchemaErr != nil {
			slotSchemaErr = fmt.Errorf("compile slot schema: %w", slotSchemaErr)
		}
	})
	return slotSchema, slotSchemaErr
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Errors []error
	Tasks  int // number of array items seen, valid or not
}

// ValidateSlot checks a raw slot payload against the slot schema.
func ValidateSlot(data []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]error, 0),
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("invalid JSON: %w", err)})
		return result
	}
	if items, ok := doc.([]interface{}); ok {
		result.Tasks = len(items)
	}

	schema, err := compiledSlotSchema()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
		return result
	}

	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
		return result
	}

	// Numeric and string ids share one namespace, so 123 and "123" collide.
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{Err: fmt.Errorf("parse slot: %w", err)})
		return result
	}
	if err := CheckUniqueIDs(tasks); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err)
	}
	return result
}

// DecodeSlot validates and decodes a slot payload. Ids must be unique.
// An empty payload decodes to an empty list.
func DecodeSlot(data []byte) ([]Task, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []Task{}, nil
	}

	result := ValidateSlot(data)
	if !result.Valid {
		return nil, errors.Join(result.Errors...)
	}

	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("parse slot: %w", err)
	}
	if tasks == nil {
		tasks = []Task{}
	}
	return tasks, nil
}

// EncodeSlot serializes tasks with 2-space indentation and a trailing newline.
func EncodeSlot(tasks []Task) ([]byte, error) {
	if tasks == nil {
		tasks = []Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal slot: %w", err)
	}
	return append(data, '\n'), nil
}

func appendSchemaErrors(result *ValidationResult, err error) {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}
	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  errors.New(err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath converts "/2/createdAt" to "[2].createdAt".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
