package dispatchmail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"ccapi/lib/ccapi/orders"
	"ccapi/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jordan-wright/email"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("ccapi/lib/dispatchmail")

type SmtpConfig struct {
	Server       string `json:"server"`
	Port         int    `json:"port"`
	EmailAddress string `json:"email_address"`
	Password     string `json:"password"`
}

type Config struct {
	Smtp SmtpConfig `json:"smtp"`
	// who receives the dispatch summary
	Recipients []string `json:"recipients"`
}

// Render formats the orders awaiting dispatch as a plain text summary.
func Render(pending []orders.Order, now time.Time) (subject string, text string) {
	now = now.In(timezone.Location)
	subject = fmt.Sprintf("%d orders awaiting dispatch (%s)", len(pending), now.Format("02/01/2006"))
	if len(pending) == 0 {
		return subject, "There are no orders awaiting dispatch.\n"
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Order", "Placed", "Customer", "Postcode", "Items", "Total"})
	var total float64
	for _, o := range pending {
		items := make([]string, len(o.Items))
		for i, item := range o.Items {
			items[i] = fmt.Sprintf("%dx %s", item.Quantity, item.SKU)
		}
		placed := ""
		if !o.Created.IsZero() {
			placed = o.Created.In(timezone.Location).Format("02/01/2006 15:04")
		}
		t.AppendRow(table.Row{
			o.ID,
			placed,
			o.CustomerName,
			o.Postcode,
			strings.Join(items, ", "),
			fmt.Sprintf("£%.2f", o.Total),
		})
		total += o.Total
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", fmt.Sprintf("£%.2f", total)})
	t.SetStyle(table.StyleLight)

	return subject, t.Render() + "\n"
}

func message(config Config, pending []orders.Order, now time.Time) *email.Email {
	subject, text := Render(pending, now)

	mail := email.NewEmail()
	mail.From = fmt.Sprintf("Dispatch <%s>", config.Smtp.EmailAddress)
	mail.To = config.Recipients
	mail.Subject = subject
	mail.Text = []byte(text)
	return mail
}

// Send mails the dispatch summary to config.Recipients. Servers that don't
// offer AUTH are sent to without authenticating.
func Send(ctx context.Context, config Config, pending []orders.Order) error {
	_, span := tracer.Start(ctx, "Send")
	defer span.End()
	span.SetAttributes(attribute.Int("orders", len(pending)))

	if len(config.Recipients) == 0 {
		err := fmt.Errorf("no recipients configured for the dispatch summary")
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	mail := message(config, pending, timezone.Now())
	addr := fmt.Sprintf("%s:%d", config.Smtp.Server, config.Smtp.Port)

	err := mail.Send(
		addr,
		smtp.PlainAuth("", config.Smtp.EmailAddress, config.Smtp.Password, config.Smtp.Server),
	)
	if err != nil && strings.Contains(err.Error(), "server doesn't support AUTH") {
		err = mail.Send(addr, nil)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to send email")
		return err
	}
	return nil
}
