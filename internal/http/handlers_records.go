package http

import (
	"errors"
	"net/http"

	"financie/internal/core"
	"financie/internal/log"
)

// MsgIncompleteForm is shown when the record form is missing or has invalid fields.
const MsgIncompleteForm = "Por favor, preencha todos os campos."

func (s *Server) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	if resp := RequirePOST(r); resp != nil {
		resp.Write(w)
		return
	}
	logger := log.FromContext(r.Context())

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		logger.WarnContext(r.Context(), "Invalid record request body", log.FieldError, err)
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}

	draft, err := ParseRecordDraft(parser)
	if err == nil {
		var rec core.Record
		rec, err = s.records.Add(r.Context(), draft)
		if err == nil {
			logger.InfoContext(r.Context(), "Record created",
				log.NewFields().
					WithOperation(log.OpCreate).
					WithRecord(rec.ID, rec.Kind.String(), rec.Category, rec.Amount.Cents).
					ToSlice()...)
			NewHTMXResponse().
				TriggerRecordsChanged(log.OpCreate, rec.ID).
				TriggerFormReset().
				TriggerSuccessNotification(rec.Kind.Label() + " adicionada: " + rec.Description).
				Write(w)
			return
		}
	}

	if isValidationError(err) {
		logger.DebugContext(r.Context(), "Record rejected", log.FieldError, err)
		UnprocessableEntityError(MsgIncompleteForm).
			TriggerBlockingNotification(MsgIncompleteForm).
			Write(w)
		return
	}

	logger.ErrorContext(r.Context(), "Failed to save record",
		log.FieldOperation, log.OpCreate, log.FieldError, err)
	InternalServerError("Erro ao salvar a transação").
		TriggerErrorNotification("Erro ao salvar a transação").
		Write(w)
}

func isValidationError(err error) bool {
	for _, target := range []error{
		ErrIncompleteForm,
		core.ErrEmptyDescription,
		core.ErrDescriptionTooLong,
		core.ErrEmptyCategory,
		core.ErrInvalidAmount,
		core.ErrInvalidKind,
		core.ErrInvalidDate,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleDeleteRecord removes a record by ID. Unknown IDs are not an error.
func (s *Server) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	if resp := RequireDeleteOrPOST(r); resp != nil {
		resp.Write(w)
		return
	}
	logger := log.FromContext(r.Context())

	parser := NewRequestBodyParser(r)
	if err := parser.Parse(); err != nil {
		BadRequestError("Formato de requisição inválido").Write(w)
		return
	}
	id := parser.Get("id")
	if id == "" {
		id = sanitizeInput(r.URL.Query().Get("id"))
	}
	if id == "" {
		BadRequestError("ID da transação ausente").Write(w)
		return
	}

	removed, err := s.records.Remove(r.Context(), id)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to delete record",
			log.FieldOperation, log.OpDelete, log.FieldRecordID, id, log.FieldError, err)
		InternalServerError("Erro ao excluir a transação").Write(w)
		return
	}

	resp := NewHTMXResponse()
	if removed {
		logger.InfoContext(r.Context(), "Record deleted", log.FieldRecordID, id)
		resp.TriggerRecordsChanged(log.OpDelete, id)
	}
	resp.Write(w)
}
