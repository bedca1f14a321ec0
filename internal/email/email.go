package email

import (
	"context"
	"fmt"

	"github.com/sahanw/travelbooking/internal/kafka"
)

// Sender writes the notice to stdout; real delivery is an external concern.
type Sender struct{}

func NewSender() *Sender {
	return &Sender{}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	if event.Email == "" {
		return nil
	}
	fmt.Printf("send email to %s: booking %s for %s is now %s\n",
		event.Email, event.Reference, event.ResourceName, event.Status)
	return nil
}
