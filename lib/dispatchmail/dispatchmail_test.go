package dispatchmail

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"ccapi/lib/ccapi/orders"
	"ccapi/lib/timezone"

	"github.com/stretchr/testify/require"
)

var pending = []orders.Order{
	{
		ID:           1001,
		CustomerName: "Jane Smith",
		Postcode:     "BA1 1AA",
		Total:        79.98,
		Created:      time.Date(2026, time.October, 18, 17, 30, 0, 0, timezone.Location),
		Items:        []orders.Item{{SKU: "CNJ-S", Quantity: 2}},
	},
	{
		ID:           1002,
		CustomerName: "Oliver Twist",
		Postcode:     "EC1A 1BB",
		Total:        12,
		Items:        []orders.Item{{SKU: "SCARF", Quantity: 1}, {SKU: "HAT", Quantity: 1}},
	},
}

func TestRender(t *testing.T) {
	now := time.Date(2026, time.October, 19, 8, 0, 0, 0, timezone.Location)

	subject, text := Render(pending, now)
	require.Equal(t, "2 orders awaiting dispatch (19/10/2026)", subject)
	require.Contains(t, text, "Jane Smith")
	require.Contains(t, text, "18/10/2026 17:30")
	require.Contains(t, text, "1x SCARF, 1x HAT")
	require.Contains(t, text, "£91.98")

	subject, text = Render(nil, now)
	require.Equal(t, "0 orders awaiting dispatch (19/10/2026)", subject)
	require.Equal(t, "There are no orders awaiting dispatch.\n", text)
}

// fakeSmtp accepts a single message without offering AUTH.
type fakeSmtp struct {
	listener net.Listener
	wg       sync.WaitGroup

	lock       sync.Mutex
	recipients []string
	data       string
}

func newFakeSmtp(t *testing.T) *fakeSmtp {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	s := &fakeSmtp{listener: listener}
	s.wg.Add(1)
	go s.serve()
	t.Cleanup(func() {
		listener.Close()
		s.wg.Wait()
	})
	return s
}

func (s *fakeSmtp) port() int {
	return s.listener.Addr().(*net.TCPAddr).Port
}

func (s *fakeSmtp) serve() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		s.handle(conn)
	}
}

func (s *fakeSmtp) handle(conn net.Conn) {
	defer conn.Close()
	reader := bufio.NewReader(conn)
	write := func(line string) {
		conn.Write([]byte(line + "\r\n"))
	}

	write("220 localhost ESMTP")
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		command := strings.ToUpper(strings.TrimSpace(line))
		switch {
		case strings.HasPrefix(command, "EHLO"):
			write("250-localhost")
			write("250 8BITMIME")
		case strings.HasPrefix(command, "HELO"):
			write("250 localhost")
		case strings.HasPrefix(command, "MAIL FROM"):
			write("250 OK")
		case strings.HasPrefix(command, "RCPT TO"):
			s.lock.Lock()
			s.recipients = append(s.recipients, strings.TrimSpace(line[len("RCPT TO:"):]))
			s.lock.Unlock()
			write("250 OK")
		case command == "DATA":
			write("354 go ahead")
			var data strings.Builder
			for {
				dataLine, err := reader.ReadString('\n')
				if err != nil {
					return
				}
				if dataLine == ".\r\n" {
					break
				}
				data.WriteString(dataLine)
			}
			s.lock.Lock()
			s.data = data.String()
			s.lock.Unlock()
			write("250 OK")
		case command == "QUIT":
			write("221 bye")
			return
		default:
			write("250 OK")
		}
	}
}

func TestSendWithoutAuth(t *testing.T) {
	server := newFakeSmtp(t)

	err := Send(context.Background(), Config{
		Smtp: SmtpConfig{
			Server:       "127.0.0.1",
			Port:         server.port(),
			EmailAddress: "dispatch@example.com",
			Password:     "unused",
		},
		Recipients: []string{"warehouse@example.com"},
	}, pending)
	require.NoError(t, err)

	server.lock.Lock()
	defer server.lock.Unlock()
	require.Equal(t, []string{"<warehouse@example.com>"}, server.recipients)
	require.Contains(t, server.data, "Subject: 2 orders awaiting dispatch")
}

func TestSendNoRecipients(t *testing.T) {
	err := Send(context.Background(), Config{
		Smtp: SmtpConfig{Server: "127.0.0.1", Port: 1},
	}, pending)
	require.Error(t, err)
}

func TestMessage(t *testing.T) {
	mail := message(Config{
		Smtp:       SmtpConfig{EmailAddress: "dispatch@example.com"},
		Recipients: []string{"a@example.com", "b@example.com"},
	}, pending, time.Now())
	require.Equal(t, "Dispatch <dispatch@example.com>", mail.From)
	require.Len(t, mail.To, 2)
	require.Contains(t, string(mail.Text), strconv.Itoa(1002))
}
