package apiclient

import (
	"fmt"
	"net/http"
)

type Kind int

const (
	KindTimeout Kind = iota + 1
	KindNetwork
	KindHTTP
	// request could not be built; nothing was sent
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindHTTP:
		return "http"
	case KindRequest:
		return "request"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

const (
	MsgTimeout      = "La requête a expiré. Veuillez réessayer."
	MsgNetwork      = "Erreur de connexion. Vérifiez votre connexion internet."
	MsgUnauthorized = "Session expirée. Veuillez vous reconnecter."
	MsgForbidden    = "Vous n'avez pas les permissions nécessaires."
	MsgNotFound     = "Ressource introuvable."
	MsgRateLimited  = "Trop de requêtes. Veuillez patienter."
	MsgServer       = "Erreur serveur. Veuillez réessayer plus tard."
	MsgGeneric      = "Une erreur est survenue."
)

// Error is the only error shape the client returns. Message is safe to show
// as is; Detail carries the raw backend body and is only set outside production.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Detail  any
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func statusMessage(status int) string {
	switch {
	case status == http.StatusUnauthorized:
		return MsgUnauthorized
	case status == http.StatusForbidden:
		return MsgForbidden
	case status == http.StatusNotFound:
		return MsgNotFound
	case status == http.StatusTooManyRequests:
		return MsgRateLimited
	case status >= 500:
		return MsgServer
	default:
		return MsgGeneric
	}
}
