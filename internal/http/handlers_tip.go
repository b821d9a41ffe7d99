package http

import (
	"net/http"

	"financie/internal/log"
)

// handleRequestTip starts a tip for the current expense breakdown and
// answers with the pending tip partial. The advisor call runs detached.
func (s *Server) handleRequestTip(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}

	sum, _, err := s.records.Summary(r.Context())
	if err != nil {
		s.listFailed(w, r, err)
		return
	}

	s.tips.Request(sum.Breakdown)
	state := s.tips.State()
	log.FromContext(r.Context()).DebugContext(r.Context(), "Tip requested",
		log.FieldOperation, log.OpTip, log.FieldTipStatus, state.Status.String())

	body, err := s.renderString("tip", newTipView(state))
	if err != nil {
		log.FromContext(r.Context()).ErrorContext(r.Context(), "Template execution failed",
			log.FieldOperation, log.OpRender, "template", "tip", log.FieldError, err)
		InternalServerError("render error").Write(w)
		return
	}
	NewHTMXResponse().
		TriggerTipUpdated(state.Status.String()).
		BodyHTML(body).
		Write(w)
}

func (s *Server) handleTipPartial(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "tip", newTipView(s.tips.State()))
}
