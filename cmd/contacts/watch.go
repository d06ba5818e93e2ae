package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/contacts/internal/events"
	"github.com/alfredjeanlab/contacts/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:         "watch",
	Short:       "Print contact changes as they happen (requires nats_url)",
	GroupID:     "data",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStore: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.NATSURL == "" {
			return errors.New("watch needs an event bus: set nats_url in the config or CONTACTS_NATS_URL")
		}

		sub, err := events.NewNATSSubscriber(cfg.NATSURL,
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats disconnected", "err", err)
			}),
			nats.ReconnectHandler(func(_ *nats.Conn) {
				logger.Info("nats reconnected")
			}),
		)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(events.TopicAll)
		if err != nil {
			return err
		}
		defer cancel()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		out := cmd.OutOrStdout()
		for {
			select {
			case <-ctx.Done():
				return nil
			case msg, ok := <-ch:
				if !ok {
					return nil
				}
				if err := printEvent(out, msg); err != nil {
					logger.Warn("unreadable event", "topic", msg.Topic, "err", err)
				}
			}
		}
	},
}

// printEvent writes one line describing msg, or the raw payload with --json.
func printEvent(w io.Writer, msg events.Message) error {
	if jsonOutput {
		_, err := fmt.Fprintln(w, string(msg.Data))
		return err
	}

	switch msg.Topic {
	case events.TopicContactCreated:
		var ev events.ContactCreated
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return err
		}
		if ev.Contact == nil {
			return errors.New("created event without contact")
		}
		fmt.Fprintf(w, "created  %d  %s  %s\n", ev.Contact.ID, ui.RenderAccent(ev.Contact.Name), ev.Contact.Phone)
	case events.TopicContactUpdated:
		var ev events.ContactUpdated
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return err
		}
		if ev.Contact == nil {
			return errors.New("updated event without contact")
		}
		fmt.Fprintf(w, "updated  %d  %s  %s\n", ev.Contact.ID, ui.RenderAccent(ev.Contact.Name), ui.RenderMuted(changedFields(ev.Changes)))
	case events.TopicContactDeleted:
		var ev events.ContactDeleted
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return err
		}
		fmt.Fprintf(w, "deleted  %d\n", ev.ContactID)
	default:
		fmt.Fprintf(w, "%s  %s\n", msg.Topic, msg.Data)
	}
	return nil
}

// changedFields lists the changed field names in a fixed order.
func changedFields(changes map[string]any) string {
	var names []string
	for _, f := range []string{"name", "phone", "email", "address"} {
		if _, ok := changes[f]; ok {
			names = append(names, f)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return "(" + strings.Join(names, ", ") + ")"
}
