// Package notification delivers best-effort mail about bookings and accounts.
package notification

import (
	"fmt"
	"strings"
	"time"

	"barber-booking/internal/data/entity"
	"barber-booking/internal/scheduling"
)

// Message is one outbound mail.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

const displayLayout = "02/01/2006 15:04"

func formatWhen(t time.Time) string {
	return t.In(scheduling.Location).Format(displayLayout)
}

func newBookingMessage(to string, b *entity.BookingDetail, frontendURL string) Message {
	phone := "No registrado"
	if b.ClientPhone != nil && *b.ClientPhone != "" {
		phone = *b.ClientPhone
	}

	var body strings.Builder
	body.WriteString("Nueva reserva pendiente:\n")
	fmt.Fprintf(&body, "Cliente: %s\n", b.ClientName)
	fmt.Fprintf(&body, "Email: %s\n", b.ClientEmail)
	fmt.Fprintf(&body, "Teléfono: %s\n", phone)
	fmt.Fprintf(&body, "Servicio: %s\n", b.ServiceName)
	fmt.Fprintf(&body, "Fecha y hora: %s\n", formatWhen(b.StartTime))
	if b.Notes != nil && *b.Notes != "" {
		fmt.Fprintf(&body, "Notas: %s\n", *b.Notes)
	}
	fmt.Fprintf(&body, "\nVer en el panel: %s/owner/bookings\n", strings.TrimRight(frontendURL, "/"))

	return Message{
		To:      to,
		Subject: "Nueva reserva pendiente",
		Body:    body.String(),
	}
}

// statusChangedMessage returns false for statuses the client is not told about.
func statusChangedMessage(b *entity.BookingDetail, frontendURL string) (Message, bool) {
	var subject, line string
	switch b.Status {
	case entity.BookingStatusConfirmed:
		subject = "Reserva confirmada - Barbería"
		line = "Tu reserva ha sido confirmada."
	case entity.BookingStatusCancelled:
		subject = "Reserva cancelada - Barbería"
		line = "Tu reserva ha sido cancelada."
	case entity.BookingStatusCompleted:
		subject = "Reserva completada - Barbería"
		line = "¡Gracias por visitarnos! Tu reserva ha sido marcada como completada."
	default:
		return Message{}, false
	}

	body := fmt.Sprintf("Hola %s,\n\n%s\n\nServicio: %s\nFecha y hora: %s\n\nVer mis reservas: %s/app/my-bookings\n",
		b.ClientName, line, b.ServiceName, formatWhen(b.StartTime), strings.TrimRight(frontendURL, "/"))

	return Message{To: b.ClientEmail, Subject: subject, Body: body}, true
}

func verificationMessage(to, code string, ttl time.Duration) Message {
	return Message{
		To:      to,
		Subject: "Código de verificación - Barbería",
		Body: fmt.Sprintf("Tu código de verificación es: %s\nEs válido por %d minutos. No lo compartas con nadie.\n",
			code, int(ttl.Minutes())),
	}
}

func passwordResetMessage(to, code string, ttl time.Duration) Message {
	return Message{
		To:      to,
		Subject: "Restablecer contraseña - Barbería",
		Body: fmt.Sprintf("Tu código para restablecer la contraseña es: %s\nEs válido por %d minutos. Si no lo solicitaste, ignora este mensaje.\n",
			code, int(ttl.Minutes())),
	}
}
