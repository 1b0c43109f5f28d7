// Package openapi exports template definitions as OpenAPI 3 schemas so
// downstream content-type registries and API gateways can consume them
// without understanding the template XML format.
package openapi
