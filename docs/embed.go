package docs

import _ "embed"

// SubscriptionOpenAPI is the OpenAPI document for the subscription API.
//
//go:embed subscription-api.openapi.yaml
var SubscriptionOpenAPI []byte

// SubscriptionSwaggerHTML is the Swagger UI page serving it.
//
//go:embed swagger.html
var SubscriptionSwaggerHTML []byte
