package api

import (
	"net/http"

	"github.com/adrianliechti/murmur/server/shared"
)

// HandleHealth reports liveness. It is served without authentication.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJson(w, Health{
		Status:  "healthy",
		Service: "murmur",

		Models: h.modelStatus(),
	})
}

func (h *Handler) handleMemoryStatus(w http.ResponseWriter, r *http.Request) {
	result := MemoryStatus{
		Models: h.modelStatus(),
	}

	if h.Accelerator != nil {
		status, err := h.Accelerator.Status()

		if err != nil {
			shared.WriteProviderError(w, r, err)
			return
		}

		result.Memory = &Memory{
			Device:   status.Device,
			Fraction: status.Fraction,

			AllocatedGB: gigabytes(status.Allocated),
			ReservedGB:  gigabytes(status.Reserved),
			TotalGB:     gigabytes(status.Total),
			AvailableGB: gigabytes(status.Available),

			UsagePercent: round(status.Usage, 1),
		}
	}

	writeJson(w, result)
}
