package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"
)

const previewLen = 60

func (a *App) Whoami(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	acc, err := a.api.Account(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Username:   %s\n", acc.Username)
	if acc.ForwardingAddress != "" {
		fmt.Fprintf(a.out, "Forwarding: %s\n", acc.ForwardingAddress)
	} else {
		fmt.Fprintln(a.out, "Forwarding: disabled")
	}
	fmt.Fprintf(a.out, "Created:    %s\n", acc.CreatedAt.Local().Format(time.DateTime))
	return nil
}

// Forward sets the forwarding address; "-" disables forwarding.
func (a *App) Forward(ctx context.Context, address string) error {
	if address == "-" {
		address = ""
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	stored, err := a.api.SetForwarding(ctx, address)
	if err != nil {
		return err
	}

	if stored == "" {
		fmt.Fprintln(a.out, "Forwarding disabled")
	} else {
		fmt.Fprintf(a.out, "Forwarding to %s\n", stored)
	}
	return nil
}

func (a *App) List(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	msgs, err := a.api.ListMessages(ctx)
	if err != nil {
		return err
	}

	if len(msgs) == 0 {
		fmt.Fprintln(a.out, "No messages")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tRECEIVED\tFROM\tSUBJECT\tPREVIEW")
	for _, m := range msgs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.ID,
			m.ReceivedAt.Local().Format(time.DateTime),
			orDash(m.SenderAddress),
			orDash(m.Subject),
			preview(m.Body),
		)
	}
	return w.Flush()
}

func (a *App) Delete(ctx context.Context, id string) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	deleted, err := a.api.DeleteMessage(ctx, id)
	if err != nil {
		return err
	}

	if deleted {
		fmt.Fprintln(a.out, "Deleted")
	} else {
		fmt.Fprintln(a.out, "No such message")
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// preview flattens body to one line and cuts it to previewLen runes.
func preview(body string) string {
	s := strings.Join(strings.Fields(body), " ")
	r := []rune(s)
	if len(r) > previewLen {
		return string(r[:previewLen-1]) + "…"
	}
	return s
}
