package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	capsules_services "capsule-desk-backend/capsules/services"
	"capsule-desk-backend/config"
	"capsule-desk-backend/feeds"
	internal_services "capsule-desk-backend/internal/services"
	occupancy_services "capsule-desk-backend/occupancy/services"
	store_models "capsule-desk-backend/store/models"
	"capsule-desk-backend/utils"
	"capsule-desk-backend/websocket"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ReportFeed is the websocket feed report lifecycle events go out on.
const ReportFeed = "reports"

var headingCaser = cases.Title(language.English)

// ReportService assembles the daily operations report from the feed snapshots
// and delivers it by email and over the websocket hub. The Gemini summary is
// optional; everything else degrades section by section when a feed is down.
type ReportService struct {
	cache     *feeds.Cache
	gemini    *internal_services.GeminiService
	hub       *websocket.Hub
	recipient string
}

func NewReportService(
	cache *feeds.Cache,
	gemini *internal_services.GeminiService,
	hub *websocket.Hub,
	recipient string,
) *ReportService {
	return &ReportService{
		cache:     cache,
		gemini:    gemini,
		hub:       hub,
		recipient: recipient,
	}
}

// BuildDailyReport renders the report text. Individual sections fall back to
// a data-unavailable marker when their feed cannot be read; the error return
// is reserved for the case where every feed failed and there is nothing
// worth sending.
func (s *ReportService) BuildDailyReport(ctx context.Context) (string, error) {
	now := time.Now().In(utils.DateLocation)
	timestamp := now.Format("2006-01-02 15:04:05 MST")

	guests, guestsErr := s.cache.Guests(ctx)
	tokens, tokensErr := s.cache.Tokens(ctx)
	capsules, capsulesErr := s.cache.Capsules(ctx)

	if guestsErr != nil && tokensErr != nil && capsulesErr != nil {
		return "", fmt.Errorf("no feed data for daily report: %w", guestsErr)
	}

	report := []string{
		"🏨 PELANGI CAPSULE HOSTEL - DAILY OPERATIONS REPORT",
		strings.Repeat("═", 55),
		"",
		s.occupancySection(guests, tokens, capsules, guestsErr, tokensErr, capsulesErr, now),
		"",
		s.capsuleSection(capsules, capsulesErr),
		"",
		s.guestSection(guests, guestsErr),
		"",
		s.overdueSection(guests, guestsErr, now),
		"",
	}

	if summary := s.summarySection(ctx, guests, tokens, capsules, now); summary != "" {
		report = append(report, summary, "")
	}

	report = append(report,
		strings.Repeat("═", 55),
		fmt.Sprintf("📅 Report Generated: %s", timestamp),
	)

	return strings.Join(report, "\n"), nil
}

// SendDailyReport builds the report, emails it to the configured recipient
// and announces the run over the websocket hub. The returned error makes the
// task queue retry the whole run.
func (s *ReportService) SendDailyReport(ctx context.Context) error {
	runID := uuid.New()
	config.Logger.Info("Daily report run started", zap.String("run_id", runID.String()))

	report, err := s.BuildDailyReport(ctx)
	if err != nil {
		config.Logger.Error("Daily report build failed",
			zap.String("run_id", runID.String()),
			zap.Error(err))
		s.broadcastRunEvent(runID, "failed")
		return err
	}

	if s.recipient == "" {
		config.Logger.Warn("REPORT_RECIPIENT not set, skipping report email",
			zap.String("run_id", runID.String()))
		s.broadcastRunEvent(runID, "built")
		return nil
	}

	subject := fmt.Sprintf("Pelangi Daily Report - %s", time.Now().In(utils.DateLocation).Format("2006-01-02"))
	if err := utils.SendEmail(s.recipient, report, subject, ""); err != nil {
		config.Logger.Error("Daily report email failed",
			zap.String("run_id", runID.String()),
			zap.Error(err))
		s.broadcastRunEvent(runID, "email_failed")
		return err
	}

	config.Logger.Info("Daily report sent",
		zap.String("run_id", runID.String()),
		zap.String("recipient", s.recipient))
	s.broadcastRunEvent(runID, "sent")
	return nil
}

func (s *ReportService) broadcastRunEvent(runID uuid.UUID, status string) {
	if s.hub == nil {
		return
	}
	s.hub.BroadcastToFeed(ReportFeed, websocket.WebSocketMessage{
		Type: websocket.MessageTypeReportEvent,
		Payload: map[string]interface{}{
			"run_id": runID.String(),
			"status": status,
		},
		Timestamp: time.Now(),
	})
}

func (s *ReportService) occupancySection(
	guests []store_models.Guest,
	tokens []store_models.GuestToken,
	capsules []store_models.Capsule,
	guestsErr, tokensErr, capsulesErr error,
	now time.Time,
) string {
	header := "📊 OCCUPANCY STATISTICS\n═══════════════════════"
	if guestsErr != nil || tokensErr != nil || capsulesErr != nil {
		return header + "\n⚠️ Data unavailable"
	}

	stats := occupancy_services.ComputeOccupancyStats(guests, tokens, capsules, now)
	return fmt.Sprintf(`%s
Total Capsules: %d
Occupied: %d capsules
Pending Reservations: %d
Available: %d capsules
Occupancy Rate: %.1f%%`,
		header, stats.Total, stats.Occupied, stats.Pending, stats.Available, stats.OccupancyRate)
}

func (s *ReportService) capsuleSection(capsules []store_models.Capsule, err error) string {
	header := "🛏️ CAPSULE STATUS BY SECTION\n═══════════════════════════"
	if err != nil {
		return header + "\n⚠️ Data unavailable"
	}

	grouped := make(map[string][]store_models.Capsule)
	for i := range capsules {
		grouped[capsules[i].Section] = append(grouped[capsules[i].Section], capsules[i])
	}

	lines := []string{header, ""}
	for _, section := range []string{store_models.SectionBack, store_models.SectionMiddle, store_models.SectionFront} {
		sectionCapsules := grouped[section]
		if len(sectionCapsules) == 0 {
			continue
		}
		capsules_services.SortCapsules(sectionCapsules)

		var occupied, available []string
		for i := range sectionCapsules {
			if sectionCapsules[i].IsAvailable {
				available = append(available, sectionCapsules[i].Number)
			} else {
				occupied = append(occupied, sectionCapsules[i].Number)
			}
		}

		lines = append(lines, fmt.Sprintf("%s Section (%d capsules):", headingCaser.String(section), len(sectionCapsules)))
		lines = append(lines, fmt.Sprintf("  Occupied: %s", joinOrNone(occupied)))
		lines = append(lines, fmt.Sprintf("  Available: %s", joinOrNone(available)))
		lines = append(lines, "")
	}

	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

func (s *ReportService) guestSection(guests []store_models.Guest, err error) string {
	header := "👥 GUEST INFORMATION\n═══════════════════"
	if err != nil {
		return header + "\n⚠️ Data unavailable"
	}

	outstanding := 0
	for i := range guests {
		if guests[i].HasOutstanding() {
			outstanding++
		}
	}

	return fmt.Sprintf(`%s
Checked-in Guests: %d
Outstanding Balances: %d`, header, len(guests), outstanding)
}

func (s *ReportService) overdueSection(guests []store_models.Guest, err error, now time.Time) string {
	header := "⚠️ OVERDUE GUESTS\n═══════════════════"
	if err != nil {
		return header + "\n⚠️ Data unavailable"
	}

	todayISO := utils.ISODate(now)
	var overdue []store_models.Guest
	for i := range guests {
		if guests[i].IsOverdue(todayISO) {
			overdue = append(overdue, guests[i])
		}
	}

	if len(overdue) == 0 {
		return header + "\n✅ No overdue guests"
	}

	lines := []string{header}
	lines = append(lines, fmt.Sprintf("⚠️ %d guest(s) past expected checkout:", len(overdue)))
	lines = append(lines, "")
	for i := range overdue {
		capsule := overdue[i].CapsuleNumber
		if capsule == "" {
			capsule = "N/A"
		}
		expected := "N/A"
		if overdue[i].ExpectedCheckoutDate != nil {
			expected = *overdue[i].ExpectedCheckoutDate
		}
		lines = append(lines, fmt.Sprintf("  - %s (Capsule %s) - Expected: %s", overdue[i].Name, capsule, expected))
	}

	return strings.Join(lines, "\n")
}

// summarySection asks Gemini for a short shift-handover paragraph. A Gemini
// outage never blocks the report; the section is simply omitted.
func (s *ReportService) summarySection(
	ctx context.Context,
	guests []store_models.Guest,
	tokens []store_models.GuestToken,
	capsules []store_models.Capsule,
	now time.Time,
) string {
	if s.gemini == nil {
		return ""
	}

	stats := occupancy_services.ComputeOccupancyStats(guests, tokens, capsules, now)
	todayISO := utils.ISODate(now)
	overdue := 0
	for i := range guests {
		if guests[i].IsOverdue(todayISO) {
			overdue++
		}
	}
	cleaning := 0
	for i := range capsules {
		if capsules[i].NeedsCleaning() {
			cleaning++
		}
	}

	prompt := fmt.Sprintf(
		"You are writing one short paragraph for a capsule hostel front-desk morning report. "+
			"Occupancy: %d of %d capsules (%.1f%%). Pending reservations: %d. Overdue guests: %d. "+
			"Capsules awaiting cleaning: %d. Write two or three plain sentences telling the morning "+
			"shift what to pay attention to. No greetings, no markdown.",
		stats.Occupied, stats.Total, stats.OccupancyRate, stats.Pending, overdue, cleaning,
	)

	summary, err := s.gemini.GenerateContentWithRetry(ctx, prompt, nil)
	if err != nil {
		config.Logger.Warn("Report summary generation failed, sending report without it", zap.Error(err))
		return ""
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return ""
	}

	return "📝 SUMMARY\n═══════════════════\n" + summary
}

func joinOrNone(numbers []string) string {
	if len(numbers) == 0 {
		return "None"
	}
	return strings.Join(numbers, ", ")
}
