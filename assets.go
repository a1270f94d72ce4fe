package clinicore

import "embed"

// EmailFS holds the html and plaintext email templates, one directory per template.
//
//go:embed templates/emails
var EmailFS embed.FS

// SchemaFS holds the ordered SQL files applied by `clinicctl migrate`.
//
//go:embed schema/*.sql
var SchemaFS embed.FS
