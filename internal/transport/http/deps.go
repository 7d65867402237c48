package http

import (
	"github.com/addisnest/api/internal/application/auth"
	"github.com/addisnest/api/internal/application/media"
	"github.com/addisnest/api/internal/application/property"
	"github.com/addisnest/api/internal/transport/http/middleware"
)

// Deps holds the application services the router exposes.
type Deps struct {
	Auth       auth.Service
	Media      media.Service
	Properties property.Service
	Tokens     middleware.TokenVerifier
}
