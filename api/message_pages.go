package api

import (
	"net/http"

	"github.com/rpupo63/devsearch-backend/errs"
	"github.com/rpupo63/devsearch-backend/models"
	"github.com/rpupo63/devsearch-backend/validation"
)

func (p *pageHandlers) inbox() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, unread, err := p.svc.Messages.Received(r.Context(), actorID(r))
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.render(w, r, "inbox", http.StatusOK, view{"Messages": messages, "Unread": unread})
	}
}

func (p *pageHandlers) message() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "messageID")
		if err != nil {
			p.fail(w, r, errs.NewNotFoundError("Could not find the message!"))
			return
		}
		message, err := p.svc.Messages.Open(r.Context(), actorID(r), id)
		if err != nil {
			p.fail(w, r, err)
			return
		}
		p.render(w, r, "message", http.StatusOK, view{"Message": message})
	}
}

// messageForm asks visitors for a name and email; signed-in senders use their profile.
func (p *pageHandlers) messageForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipient, ok := p.recipient(w, r)
		if !ok {
			return
		}
		p.render(w, r, "message_form", http.StatusOK, view{"Recipient": recipient, "Form": validation.MessageInput{}})
	}
}

func (p *pageHandlers) createMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipient, ok := p.recipient(w, r)
		if !ok {
			return
		}
		if err := r.ParseForm(); err != nil {
			p.fail(w, r, errs.Malformed("message form"))
			return
		}
		in := validation.MessageInput{
			Name:    r.PostForm.Get("name"),
			Email:   r.PostForm.Get("email"),
			Subject: r.PostForm.Get("subject"),
			Body:    r.PostForm.Get("body"),
		}

		var err error
		if user := ctxGetProfile(r.Context()); user != nil {
			_, err = p.svc.Messages.Send(r.Context(), user.ID, recipient.ID, in)
		} else {
			_, err = p.svc.Messages.SendAnonymous(r.Context(), recipient.ID, in)
		}
		if err != nil {
			if fields, ok := formErrors(err); ok {
				p.render(w, r, "message_form", http.StatusUnprocessableEntity, view{"Recipient": recipient, "Form": in, "Errors": fields})
				return
			}
			p.fail(w, r, err)
			return
		}
		p.redirect(w, r, "/user-profile/"+recipient.ID.String(), flashSuccess, "Your message was successfully sent!")
	}
}

func (p *pageHandlers) recipient(w http.ResponseWriter, r *http.Request) (*models.Profile, bool) {
	id, err := urlID(r, "profileID")
	if err != nil {
		p.fail(w, r, errs.NewNotFoundError("Profile not found!"))
		return nil, false
	}
	recipient, err := p.svc.Profiles.Get(r.Context(), id)
	if err != nil {
		p.fail(w, r, err)
		return nil, false
	}
	return recipient, true
}
