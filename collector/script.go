package collector

import (
	_ "embed"
	"strings"

	"github.com/ByLCY/hwlabels/binding"
)

//go:embed inventario.sh
var scriptTemplate string

// ScriptFilename is the attachment name of the served script.
const ScriptFilename = "inventario.sh"

// Script returns the client script with ${server_url} pointing at publicURL.
func Script(publicURL string) string {
	return binding.Interpolate(scriptTemplate, map[string]string{
		"server_url": strings.TrimRight(publicURL, "/"),
	})
}
