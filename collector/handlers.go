package collector

import (
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ByLCY/hwlabels/inventory"
)

// maxPayloadBytes bounds the body accepted by POST /save_inventory.
const maxPayloadBytes = 64 << 10

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

var indexPage = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head>
    <title>Inventario de Hardware</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; }
        code { background: #f0f0f0; padding: 5px; border-radius: 3px; }
        pre { background: #f5f5f5; padding: 15px; border-radius: 5px; overflow-x: auto; }
    </style>
</head>
<body>
    <h1>Inventario de Hardware</h1>
    <p>Aplicación para recopilar datos de hardware de equipos.</p>
    <h2>Endpoints disponibles:</h2>
    <ul>
        <li><code>GET /get_script</code> - Descarga el script bash</li>
        <li><code>POST /save_inventory</code> - Guarda datos del inventario (JSON)</li>
        <li><code>GET /health</code> - Comprueba estado del servidor</li>
    </ul>
    <h2>Uso:</h2>
    <pre>curl {{.PublicURL}}/get_script | bash</pre>
    <h2>Datos guardados:</h2>
    <p>Archivo: <code>{{.CSVPath}}</code></p>
</body>
</html>
`))

// Handler returns the HTTP routes of the collector.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /get_script", s.handleScript)
	mux.HandleFunc("POST /save_inventory", s.handleSave)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := indexPage.Execute(w, struct{ PublicURL, CSVPath string }{
		PublicURL: strings.TrimRight(s.config.PublicURL, "/"),
		CSVPath:   s.writer.Path(),
	})
	if err != nil {
		s.logger.Warn("rendering index page", zap.Error(err))
	}
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ScriptFilename))
	_, _ = w.Write([]byte(s.script))
	s.logger.Debug("script served", zap.String("remote", r.RemoteAddr))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil || payload == nil {
		writeJSON(w, http.StatusBadRequest, response{Error: "El cuerpo debe ser un objeto JSON"})
		return
	}

	for _, field := range inventory.Header {
		if _, ok := payload[field]; !ok {
			writeJSON(w, http.StatusBadRequest, response{
				Error: fmt.Sprintf("Faltan campos requeridos. Necesarios: %s", strings.Join(inventory.Header, ", ")),
			})
			return
		}
	}

	rec := inventory.NewRecord(
		inventory.FieldCodigo, strings.TrimSpace(stringify(payload[inventory.FieldCodigo])),
		inventory.FieldCPUModel, strings.TrimSpace(stringify(payload[inventory.FieldCPUModel])),
		inventory.FieldRAMGiB, stringify(payload[inventory.FieldRAMGiB]),
		inventory.FieldDiscos, strings.TrimSpace(stringify(payload[inventory.FieldDiscos])),
	)
	codigo, _ := rec.Get(inventory.FieldCodigo)
	if codigo == "" {
		writeJSON(w, http.StatusBadRequest, response{Error: "El código no puede estar vacío"})
		return
	}

	if err := s.writer.Append(rec); err != nil {
		s.logger.Error("appending inventory record", zap.String("codigo", codigo), zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, response{
			Error: fmt.Sprintf("Error al guardar el inventario: %v", err),
		})
		return
	}

	s.logger.Info("inventory record saved",
		zap.String("codigo", codigo),
		zap.String("remote", r.RemoteAddr),
	)
	writeJSON(w, http.StatusCreated, response{
		Success: true,
		Message: fmt.Sprintf("Inventario guardado correctamente en %s", s.writer.Path()),
	})
}

// stringify renders a decoded JSON value the way it appeared in the request.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
