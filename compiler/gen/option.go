package gen

import (
	"errors"
	"slices"
	"strings"

	"github.com/syssam/specgen/schema/field"
)

// defaultHeader is the comment placed at the top of generated Go files.
const defaultHeader = "Code generated by specgen. DO NOT EDIT."

// Config holds the parser and generator configuration.
type Config struct {
	// Header is the comment written at the top of generated Go files.
	Header string
	// EntityPolicy decides whether a type name denotes an entity.
	EntityPolicy field.EntityPolicy
	// PrimaryKeyPolicy decides whether a column is part of the primary key.
	PrimaryKeyPolicy field.PrimaryKeyPolicy
	// Methods are the HTTP verbs turned into functions.
	Methods []Method
	// ContentTypes are the media types whose schemas yield body types,
	// in order of preference.
	ContentTypes []string
	// Features are the enabled artifact families.
	Features []Feature
	// Package is the package name of generated Go models.
	Package string
}

// Option configures code generation.
type Option func(*Config) error

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() *Config {
	return &Config{
		Header:           defaultHeader,
		EntityPolicy:     field.IsEntityName,
		PrimaryKeyPolicy: field.IsIDColumn,
		Methods:          slices.Clone(Methods),
		ContentTypes:     []string{"application/json"},
		Features:         DefaultFeatures(),
		Package:          "models",
	}
}

// NewConfig creates a default configuration and applies the options to it.
func NewConfig(opts ...Option) (*Config, error) {
	c := DefaultConfig()
	if err := c.ApplyAll(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig is like NewConfig but panics on error.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Mapper returns a type mapper honoring the configured entity policy.
func (c *Config) Mapper() *field.Mapper {
	return field.NewMapper(c.EntityPolicy)
}

// WithHeader sets the file header comment of generated Go files.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithEntityPolicy replaces the rule deciding which type names are entities.
func WithEntityPolicy(p field.EntityPolicy) Option {
	return func(c *Config) error {
		if p == nil {
			return NewConfigError("EntityPolicy", nil, "policy cannot be nil")
		}
		c.EntityPolicy = p
		return nil
	}
}

// WithPrimaryKeyPolicy replaces the rule deciding which columns form the
// primary key.
func WithPrimaryKeyPolicy(p field.PrimaryKeyPolicy) Option {
	return func(c *Config) error {
		if p == nil {
			return NewConfigError("PrimaryKeyPolicy", nil, "policy cannot be nil")
		}
		c.PrimaryKeyPolicy = p
		return nil
	}
}

// WithMethods restricts the HTTP verbs turned into functions.
func WithMethods(methods ...Method) Option {
	return func(c *Config) error {
		if len(methods) == 0 {
			return NewConfigError("Methods", nil, "at least one method is required")
		}
		for _, m := range methods {
			if _, ok := ParseMethod(string(m)); !ok {
				return NewConfigError("Methods", m, "unknown HTTP method")
			}
		}
		c.Methods = methods
		return nil
	}
}

// WithContentTypes sets the media types whose schemas yield body types.
func WithContentTypes(types ...string) Option {
	return func(c *Config) error {
		if len(types) == 0 {
			return NewConfigError("ContentTypes", nil, "at least one content type is required")
		}
		for _, t := range types {
			if !strings.Contains(t, "/") {
				return NewConfigError("ContentTypes", t, "content type must have the form type/subtype")
			}
		}
		c.ContentTypes = types
		return nil
	}
}

// WithFeatures sets the enabled artifact families.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = features
		return nil
	}
}

// WithFeatureNames is like WithFeatures but looks the features up by name.
func WithFeatureNames(names ...string) Option {
	return func(c *Config) error {
		var fs []Feature
		for _, name := range names {
			f, ok := FeatureByName(name)
			if !ok {
				return NewConfigError("Features", name, "unknown feature")
			}
			fs = append(fs, f)
		}
		c.Features = fs
		return nil
	}
}

// WithPackage sets the package name of generated Go models.
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		if !field.IsIdentifier(pkg) {
			return NewConfigError("Package", pkg, "package must be a valid identifier")
		}
		c.Package = pkg
		return nil
	}
}

// FeatureEnabled reports if the given feature name is enabled.
func (c *Config) FeatureEnabled(name string) (bool, error) {
	if _, ok := FeatureByName(name); !ok {
		return false, NewConfigError("Features", name, "unknown feature")
	}
	return c.HasFeature(name), nil
}

// HasFeature reports if the feature is present in the configuration.
func (c *Config) HasFeature(name string) bool {
	return slices.ContainsFunc(c.Features, func(f Feature) bool { return f.Name == name })
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
