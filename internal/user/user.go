// Package user models the identifiers and attributes of the user being
// evaluated.
package user

import "github.com/Hyunsik-Yoo/hackle-go-sdk/internal/model"

// HackleUser is immutable for the duration of an evaluation call.
type HackleUser struct {
	Identifiers      map[string]string
	Properties       map[string]any
	HackleProperties map[string]any
}

// Option configures a HackleUser built by New.
type Option func(*HackleUser)

// New builds a user. Empty identifiers are ignored.
func New(opts ...Option) HackleUser {
	u := HackleUser{
		Identifiers:      make(map[string]string),
		Properties:       make(map[string]any),
		HackleProperties: make(map[string]any),
	}
	for _, opt := range opts {
		opt(&u)
	}
	return u
}

func WithID(id string) Option { return WithIdentifier(model.IdentifierID, id) }

func WithUserID(id string) Option { return WithIdentifier(model.IdentifierUserID, id) }

func WithDeviceID(id string) Option { return WithIdentifier(model.IdentifierDeviceID, id) }

// WithIdentifier sets a custom identifier type.
func WithIdentifier(identifierType, value string) Option {
	return func(u *HackleUser) {
		if identifierType == "" || value == "" {
			return
		}
		u.Identifiers[identifierType] = value
	}
}

// WithProperty sets a user property. A nil value removes it.
func WithProperty(key string, value any) Option {
	return func(u *HackleUser) {
		if value == nil {
			delete(u.Properties, key)
			return
		}
		u.Properties[key] = value
	}
}

// WithProperties copies every entry of props into the user properties.
func WithProperties(props map[string]any) Option {
	return func(u *HackleUser) {
		for k, v := range props {
			WithProperty(k, v)(u)
		}
	}
}

// WithHackleProperty sets a property collected by the SDK itself, such as
// platform or app version.
func WithHackleProperty(key string, value any) Option {
	return func(u *HackleUser) {
		if value == nil {
			return
		}
		u.HackleProperties[key] = value
	}
}

// Identifier returns the identifier of the given type.
func (u HackleUser) Identifier(identifierType string) (string, bool) {
	id, ok := u.Identifiers[identifierType]
	return id, ok
}
