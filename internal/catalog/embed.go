package catalog

import _ "embed"

//go:embed scenarios.yaml
var scenariosYAML []byte
