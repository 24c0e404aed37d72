package notifier

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/events-api/internal/models"
)

// DiscordNotifier announces registrations in a staff channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(session *discordgo.Session, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyRegistration(ctx context.Context, event models.Event, registration models.EventRegistration) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	_, err := n.session.ChannelMessageSend(n.channelID, AnnouncementMessage(event, registration), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send discord message: %w", err)
	}

	return nil
}

func AnnouncementMessage(event models.Event, registration models.EventRegistration) string {
	return fmt.Sprintf("🎉 **New Registration**\n**Event:** %s (#%d)\n**When:** %s %s\n**Attendee:** %s <%s>",
		event.Title,
		event.ID,
		event.Date,
		event.Time,
		registration.FullName(),
		registration.Email,
	)
}
