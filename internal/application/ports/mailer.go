package ports

import "context"

type Mailer interface {
	SendWelcome(ctx context.Context, to, fullName string) error
}
