package rest

import (
	"html/template"
	"log/slog"
	"net/http"
)

// statusPage mirrors the landing page players see when they open the server
// URL in a browser: the address to point the client at and how many rooms
// are live right now.
const statusPage = `<!DOCTYPE html>
<html>
<head>
    <title>Tic-Tac-Toe Server</title>
    <style>
        body { font-family: Arial; padding: 40px; max-width: 800px; margin: 0 auto; }
        h1 { color: #667eea; }
        .card { background: #f5f5f5; padding: 20px; border-radius: 10px; margin: 20px 0; }
        .url { background: #fff; padding: 10px; border-radius: 5px; font-family: monospace; }
    </style>
</head>
<body>
    <h1>Tic-Tac-Toe server is running</h1>

    <div class="card">
        <h2>Server URL</h2>
        <div class="url">{{.PublicURL}}</div>
        <p>Point the game client at this address.</p>
    </div>

    <div class="card">
        <h3>Server stats</h3>
        <p>Active rooms: {{.ActiveRooms}}</p>
    </div>
</body>
</html>
`

var statusTemplate = template.Must(template.New("status").Parse(statusPage))

type statusData struct {
	PublicURL   string
	ActiveRooms int
}

func newStatusHandler(logger *slog.Logger, publicURL string, status statusProvider) http.HandlerFunc {
	log := logger.With("method", "statusHandler")

	return func(w http.ResponseWriter, r *http.Request) {
		activeRooms, err := status.ActiveRooms(r.Context())
		if err != nil {
			log.Error("failed to get active rooms", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")

		data := statusData{
			PublicURL:   publicURL,
			ActiveRooms: activeRooms,
		}

		if err = statusTemplate.Execute(w, data); err != nil {
			log.Error("failed to render status page", "error", err)
		}
	}
}
