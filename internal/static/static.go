package static

import _ "embed"

// SkillsJSON contains the education field to skill catalog and the default tags.
//
//go:embed skills.json
var SkillsJSON []byte

// CompaniesJSON contains the company name to careers URL directory.
//
//go:embed companies.json
var CompaniesJSON []byte

// IndexTemplate contains the html/template source of the recommendation page.
//
//go:embed index.html.tmpl
var IndexTemplate string

// OpenAPIJSON contains the OpenAPI document of the JSON endpoints, served to
// the Swagger UI.
//
//go:embed openapi.json
var OpenAPIJSON []byte
