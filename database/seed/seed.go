// Package seed populates an empty database with sample experts so a fresh
// deployment has a browsable catalog. Each expert gets fourteen days of
// weekday availability.
package seed

import (
	"context"
	"time"

	expertRepo "meetio/database/repository/expert"
	"meetio/models"
	"meetio/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var slotTimes = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30", "17:00", "17:30",
}

func generateSlots() []models.Slot {
	slots := make([]models.Slot, 0, len(slotTimes))
	for _, t := range slotTimes {
		slots = append(slots, models.Slot{Time: t})
	}
	return slots
}

func generateAvailability(now time.Time) []models.AvailabilityDay {
	var days []models.AvailabilityDay
	for i := 1; i <= 14; i++ {
		date := now.AddDate(0, 0, i)
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}
		days = append(days, models.AvailabilityDay{
			Date:  date.Format("2006-01-02"),
			Slots: generateSlots(),
		})
	}
	return days
}

// Experts inserts sample experts when the collection is empty.
func Experts(ctx context.Context, repo expertRepo.ExpertRepository) error {
	logger := utils.GetLogger()

	count, err := repo.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	logger.Info("No experts found, auto-seeding...")

	samples := []models.Expert{
		{Name: "Sarah Mitchell", Email: "sarah.mitchell@meetio.com", Category: "Technology", Title: "Senior Software Architect", Bio: "15+ years building scalable distributed systems at Fortune 500 companies.", Experience: 15, Rating: 4.9, TotalReviews: 234, HourlyRate: 150, Skills: []string{"System Design", "Cloud Architecture", "Microservices", "Kubernetes", "AWS"}},
		{Name: "James Rodriguez", Email: "james.rodriguez@meetio.com", Category: "Business", Title: "Business Strategy Consultant", Bio: "Former McKinsey consultant with deep expertise in market entry strategies.", Experience: 12, Rating: 4.8, TotalReviews: 189, HourlyRate: 200, Skills: []string{"Market Analysis", "Strategic Planning", "M&A", "Business Development"}},
		{Name: "Emily Chen", Email: "emily.chen@meetio.com", Category: "Design", Title: "Principal UX Designer", Bio: "Led design teams at Google and Airbnb.", Experience: 10, Rating: 4.7, TotalReviews: 156, HourlyRate: 130, Skills: []string{"UX Research", "Design Systems", "Figma", "Prototyping"}},
		{Name: "Michael Thompson", Email: "michael.thompson@meetio.com", Category: "Finance", Title: "Financial Planning Expert", Bio: "Certified Financial Planner with expertise in corporate finance.", Experience: 18, Rating: 4.9, TotalReviews: 312, HourlyRate: 175, Skills: []string{"Financial Planning", "Investment Strategy", "Tax Planning", "Risk Management"}},
		{Name: "Lisa Wang", Email: "lisa.wang@meetio.com", Category: "Technology", Title: "AI/ML Engineering Lead", Bio: "PhD from Stanford. Building production ML systems for 8 years.", Experience: 8, Rating: 4.8, TotalReviews: 145, HourlyRate: 180, Skills: []string{"Machine Learning", "Deep Learning", "NLP", "Python"}},
		{Name: "Robert Wilson", Email: "robert.wilson@meetio.com", Category: "Legal", Title: "Corporate Legal Advisor", Bio: "20 years in corporate law, specializing in startup legal structuring.", Experience: 20, Rating: 4.8, TotalReviews: 178, HourlyRate: 300, Skills: []string{"Corporate Law", "IP Protection", "Contracts", "Compliance"}},
	}

	now := time.Now()
	for i := range samples {
		samples[i].ID = uuid.New().String()
		samples[i].Availability = generateAvailability(now)
		samples[i].CreatedAt = now.UTC()
		samples[i].UpdatedAt = now.UTC()
	}

	if err := repo.InsertMany(ctx, samples); err != nil {
		return err
	}
	logger.Info("Seeded sample experts", zap.Int("count", len(samples)))
	return nil
}
