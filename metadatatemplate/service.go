// SPDX-FileCopyrightText: 2026 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

// Package metadatatemplate builds the resource used to save line list
// metadata templates. Templates are posted as jQuery style form bodies.
package metadatatemplate

import (
	"errors"
	"net/http"

	"emperror.dev/emperror"
	"github.com/go-playground/validator/v10"
	"github.com/xmidt-org/arrange"
	"github.com/xmidt-org/linelist/jqparam"
	"github.com/xmidt-org/linelist/resource"
	"github.com/xmidt-org/sallust"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// DefaultConfigKey is where Provide looks for Config.
const DefaultConfigKey = "metadataTemplates"

// ResourceName is the name the templates resource is provided under.
const ResourceName = "metadata_templates"

var (
	// ErrNilConstructor is returned by New when no resource constructor is given.
	ErrNilConstructor = errors.New("resource constructor is required")

	// ErrSaveTemplateURLEmpty is returned by New when the saveTemplate URL is missing.
	ErrSaveTemplateURLEmpty = errors.New("saveTemplate URL is required")
)

// Serializer turns a template payload into a request body.
type Serializer func(v any) (string, error)

// URLs holds the endpoints the page is configured with.
type URLs struct {
	SaveTemplate string `validate:"required"`
}

// Config is the metadata template section of the page configuration.
type Config struct {
	URLs URLs
}

var validate = validator.New()

// New returns a resource bound to config.URLs.SaveTemplate. An "id" found on
// the entity fills an :id placeholder in the URL, and the save action POSTs
// the entity encoded by serialize. serialize errors reach the caller of Save
// as is.
//
// A nil serialize defaults to jqparam.Marshal and a nil logger to a no op
// logger. Templates are logged at debug level before they are serialized.
func New(newResource resource.Constructor, config Config, serialize Serializer, logger *zap.Logger) (*resource.Resource, error) {
	if newResource == nil {
		return nil, ErrNilConstructor
	}
	if err := validate.Struct(config); err != nil {
		return nil, emperror.WrapWith(ErrSaveTemplateURLEmpty, "invalid metadata template config", "reason", err.Error())
	}
	if serialize == nil {
		serialize = jqparam.Marshal
	}
	if logger == nil {
		logger = sallust.Default()
	}

	r, err := newResource(config.URLs.SaveTemplate,
		resource.Params{
			"id": "@id",
		},
		resource.Actions{
			resource.SaveAction: {
				Method:      http.MethodPost,
				ContentType: resource.FormContentType,
				TransformRequest: func(entity any) (string, error) {
					logger.Debug("serializing metadata template", zap.Any("template", entity))
					return serialize(entity)
				},
			},
		},
	)
	if err != nil {
		return nil, emperror.WrapWith(err, "failed to build metadata template resource", "url", config.URLs.SaveTemplate)
	}
	return r, nil
}

type serviceIn struct {
	fx.In
	Constructor resource.Constructor
	Config      *Config
	Logger      *zap.Logger
}

// Provide unmarshals Config from DefaultConfigKey and provides the templates
// resource named ResourceName.
func Provide() fx.Option {
	return fx.Provide(
		arrange.UnmarshalKey(DefaultConfigKey, &Config{}),
		fx.Annotated{
			Name: ResourceName,
			Target: func(in serviceIn) (*resource.Resource, error) {
				var c Config
				if in.Config != nil {
					c = *in.Config
				}
				return New(in.Constructor, c, jqparam.Marshal, in.Logger)
			},
		},
	)
}
