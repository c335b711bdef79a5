package loader

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pb33f/libopenapi"
	"github.com/pb33f/libopenapi/datamodel"
	validator "github.com/pb33f/libopenapi-validator"

	"github.com/mockd/mockd/internal/model"
)

// Options control document acquisition and validation.
type Options struct {
	// Validate runs full document validation against the OpenAPI meta-schema
	// before the document is transformed.
	Validate bool
	// Logger receives parse warnings and validation detail. Nil disables.
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Load acquires a specification from a URL or a file path, whichever the
// source string looks like, and transforms it into the internal model.
func Load(source string, opts Options) (*model.Spec, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return LoadURL(source, opts)
	}
	return LoadFile(source, opts)
}

// LoadFile reads a specification from disk. Relative file references inside
// the document are resolved against the file's directory.
func LoadFile(path string, opts Options) (*model.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading spec file: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving absolute path: %w", err)
	}

	config := &datamodel.DocumentConfiguration{
		BasePath:            filepath.Dir(absPath),
		AllowFileReferences: true,
	}

	return loadWithConfig(data, config, opts)
}

// LoadURL fetches a specification over HTTP(S).
func LoadURL(rawURL string, opts Options) (*model.Spec, error) {
	resp, err := httpClient.Get(rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching spec: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching spec: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading spec response: %w", err)
	}

	return loadWithConfig(data, nil, opts)
}

// LoadBytes parses an in-memory specification.
func LoadBytes(data []byte, opts Options) (*model.Spec, error) {
	return loadWithConfig(data, nil, opts)
}

func loadWithConfig(data []byte, config *datamodel.DocumentConfiguration, opts Options) (*model.Spec, error) {
	var doc libopenapi.Document
	var err error

	if config != nil {
		doc, err = libopenapi.NewDocumentWithConfiguration(data, config)
	} else {
		doc, err = libopenapi.NewDocument(data)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing OpenAPI document: %w", err)
	}

	version := doc.GetVersion()
	if !strings.HasPrefix(version, "3.") {
		return nil, fmt.Errorf("unsupported OpenAPI version: %s (convert 2.0 documents to 3.x first)", version)
	}

	if opts.Validate {
		if err := validate(doc, opts); err != nil {
			return nil, err
		}
	}

	docModel, err := doc.BuildV3Model()
	if err != nil {
		return nil, fmt.Errorf("building OpenAPI model: %w", err)
	}

	if strings.HasPrefix(version, "3.0") {
		opts.logger().Debug("OpenAPI 3.0.x detected; some 3.1 features unavailable")
	}

	return transform(docModel, version, opts.logger())
}

func validate(doc libopenapi.Document, opts Options) error {
	v, errs := validator.NewValidator(doc)
	if len(errs) > 0 {
		return fmt.Errorf("building validator: %w", errs[0])
	}

	valid, validationErrs := v.ValidateDocument()
	if valid {
		return nil
	}

	log := opts.logger()
	for _, e := range validationErrs {
		log.Error("document validation failed",
			"message", e.Message,
			"reason", e.Reason,
			"fix", e.HowToFix)
	}
	if len(validationErrs) > 0 {
		return fmt.Errorf("document validation failed: %s", validationErrs[0].Message)
	}
	return fmt.Errorf("document validation failed")
}
