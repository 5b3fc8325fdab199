package middleware

import tele "gopkg.in/telebot.v4"

// Admins answers allow-list membership; *access.Gate satisfies it.
type Admins interface {
	IsAdmin(id int64) bool
}

// AdminOptions defines how admin-only checks should behave.
type AdminOptions struct {
	Admins   Admins
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware ensures that only allow-listed users can invoke downstream handlers.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if opts.Admins != nil && (sender == nil || !opts.Admins.IsAdmin(sender.ID)) {
				if opts.OnReject != nil {
					return opts.OnReject(c)
				}
				return nil
			}
			return next(c)
		}
	}
}
