package api

import (
	"net/http"

	"github.com/rpupo63/devsearch-backend/services"
	"github.com/rpupo63/devsearch-backend/validation"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type messageHandler struct {
	responder Responder
	logger    zerolog.Logger
	messages  *services.MessageService
}

func newMessageHandler(messages *services.MessageService) messageHandler {
	logger := log.With().Str("handlerName", "messageHandler").Logger()

	return messageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		messages:  messages,
	}
}

// getReceived lists the inbox, unread first, with the unread count
// @Router /api/messages-api/received [get]
func (h messageHandler) getReceived() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, unread, err := h.messages.Received(r.Context(), ctxGetProfileID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, inboxResponse{Messages: messages, Unread: unread})
	}
}

// @Router /api/messages-api/sent [get]
func (h messageHandler) getSent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := h.messages.Sent(r.Context(), ctxGetProfileID(r.Context()))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, messages)
	}
}

// openMessage returns a message and marks it read when the caller is the recipient
// @Router /api/messages-api/{messageID} [get]
func (h messageHandler) openMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "messageID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message, err := h.messages.Open(r.Context(), ctxGetProfileID(r.Context()), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, message)
	}
}

// sendMessage delivers a message from the signed-in caller
// @Router /api/messages-api/ [post]
func (h messageHandler) sendMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := decodeJSON(r, &req, "message"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		recipientID, err := parseID(req.RecipientID, "recipient_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message, err := h.messages.Send(r.Context(), ctxGetProfileID(r.Context()), recipientID, req.input())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, message)
	}
}

// sendAnonymous delivers a message from a visitor who supplies a name and email
// @Router /api/messages-api/from-non-user [post]
func (h messageHandler) sendAnonymous() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req messageRequest
		if err := decodeJSON(r, &req, "message"); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		recipientID, err := parseID(req.RecipientID, "recipient_id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		message, err := h.messages.SendAnonymous(r.Context(), recipientID, req.input())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, message)
	}
}

// deleteMessage removes the message from the caller's side only
// @Router /api/messages-api/{messageID} [delete]
func (h messageHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "messageID")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.messages.Delete(r.Context(), ctxGetProfileID(r.Context()), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}

func (req messageRequest) input() validation.MessageInput {
	return validation.MessageInput{Name: req.Name, Email: req.Email, Subject: req.Subject, Body: req.Body}
}
