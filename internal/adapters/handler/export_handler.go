package handler

import (
	"net/http"

	"github.com/AchilleasB/classbank/ledger-service/internal/adapters/export"
	"github.com/AchilleasB/classbank/ledger-service/internal/logging"
)

type ExportHandler struct {
	root string
}

func NewExportHandler(root string) *ExportHandler {
	return &ExportHandler{root: root}
}

// Export streams the artifact archive. Once streaming has started a
// failure can only be logged.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename="classbank-export.zip"`)

	log := logging.FromCtx(r.Context())
	n, err := export.WriteArchive(w, h.root)
	if err != nil {
		log.Error("export failed", "root", h.root, "files", n, "error", err)
		return
	}
	log.Info("export served", "files", n)
}
