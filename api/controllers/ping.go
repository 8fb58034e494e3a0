package controllers

import (
	"net/http"

	"github.com/ambernegi/rha/api/middleware"
	"github.com/ambernegi/rha/api/responses"
)

func PublicPing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"scope": "public", "status": "ok"})
	}
}

func PrivatePing() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]string{"scope": "private", "status": "ok"}
		if identity, ok := middleware.IdentityFromContext(r.Context()); ok {
			payload["user_id"] = identity.UserID.String()
			payload["role"] = string(identity.Role)
		}
		responses.WriteSuccess(w, payload)
	}
}
