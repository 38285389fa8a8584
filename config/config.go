// Package config holds the gateway configuration. The host platform keeps
// settings in a loosely typed bag; everything is converted to this struct
// and validated once at load time so a missing account or API URL fails
// fast instead of at the first checkout.
package config

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/hectorchu/wc-gateway-gonano/types"
)

// Defaults mirror the published plugin settings.
const (
	DefaultAPIURL      = "https://gonano.dev"
	DefaultTitle       = "Gonano Payments"
	DefaultDescription = "Pay via Gonano."
)

var validate = validator.New()

// Config is the gateway configuration surface.
type Config struct {
	// APIURL is the processor base URL.
	APIURL string `json:"apiUrl" validate:"required,url"`

	// Account is the merchant account receiving any sent NANO.
	Account string `json:"account" validate:"required"`

	// Multiplier is a discount/markup scalar applied at checkout.
	Multiplier decimal.Decimal `json:"multiplier"`

	// CallbackURL is the inbound confirmation endpoint the processor (or
	// the buyer's browser) calls back to.
	CallbackURL string `json:"callbackUrl" validate:"required,url"`

	// ReturnURL is the buyer-facing page shown after the callback has been
	// resolved, whatever the outcome.
	ReturnURL string `json:"returnUrl" validate:"required,url"`

	// Title and Description are display-only checkout texts.
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Default returns a config pre-filled with the plugin defaults. Account,
// CallbackURL and ReturnURL have no usable defaults and must be set.
func Default() Config {
	return Config{
		APIURL:      DefaultAPIURL,
		Multiplier:  decimal.NewFromFloat(1.00),
		Title:       DefaultTitle,
		Description: DefaultDescription,
	}
}

// FromSettings builds a config from a string-keyed settings bag, applying
// defaults for absent entries. Recognized keys: api_url, account,
// multiplier, callback_url, return_url, title, description.
func FromSettings(settings map[string]any) (Config, error) {
	cfg := Default()

	if v, ok := settings["api_url"]; ok {
		cfg.APIURL = cast.ToString(v)
	}
	if v, ok := settings["account"]; ok {
		cfg.Account = cast.ToString(v)
	}
	if v, ok := settings["multiplier"]; ok {
		m, err := decimal.NewFromString(cast.ToString(v))
		if err != nil {
			return cfg, &types.ConfigError{Field: "multiplier", Reason: err.Error()}
		}
		cfg.Multiplier = m
	}
	if v, ok := settings["callback_url"]; ok {
		cfg.CallbackURL = cast.ToString(v)
	}
	if v, ok := settings["return_url"]; ok {
		cfg.ReturnURL = cast.ToString(v)
	}
	if v, ok := settings["title"]; ok {
		cfg.Title = cast.ToString(v)
	}
	if v, ok := settings["description"]; ok {
		cfg.Description = cast.ToString(v)
	}

	return cfg, cfg.Validate()
}

// Validate checks the config and reports the first problem found.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return &types.ConfigError{
				Field:  errs[0].Field(),
				Reason: "failed " + errs[0].Tag() + " check",
			}
		}
		return &types.ConfigError{Field: "config", Reason: err.Error()}
	}

	if c.Multiplier.IsNegative() {
		return &types.ConfigError{Field: "Multiplier", Reason: "must not be negative"}
	}

	return nil
}
