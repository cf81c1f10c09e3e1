// Package catalog holds the system-defined training plan templates and
// their weekly workout structure. Seeds are pure data; the template
// service writes them to the database on startup when the catalog
// collection is empty.
package catalog

import (
	"github.com/tigerswim/raceprep-sub001/internal/domain"
)

// SeedTemplate bundles a template definition with its workouts. Workouts
// carry (week, day) addressing only; template and workout IDs are
// assigned by the repository on insert.
type SeedTemplate struct {
	Template domain.PlanTemplate
	Workouts []domain.TemplateWorkout
}

// daySlot describes one recurring weekly slot of a plan.
type daySlot struct {
	day             int // 1 (Mon) - 7 (Sun)
	discipline      domain.Discipline
	workoutType     string
	baseMinutes     int
	baseMiles       float64
	weeklyGrowthPct float64 // volume added per week over the base
	intensity       string
	description     string
}

// buildWeeks expands recurring slots into per-week workouts. Volume ramps
// from the base by weeklyGrowthPct per week, with every fourth week cut
// back to the base as a recovery week.
func buildWeeks(durationWeeks int, slots []daySlot) []domain.TemplateWorkout {
	var workouts []domain.TemplateWorkout
	for week := 1; week <= durationWeeks; week++ {
		recovery := week%4 == 0 && week != durationWeeks
		for _, s := range slots {
			growth := 1 + s.weeklyGrowthPct/100*float64(week-1)
			if recovery {
				growth = 1
			}
			w := domain.TemplateWorkout{
				WeekNumber:  week,
				DayOfWeek:   s.day,
				Discipline:  s.discipline,
				WorkoutType: s.workoutType,
				Intensity:   s.intensity,
				Description: s.description,
			}
			if s.baseMinutes > 0 {
				w.DurationMinutes = int(float64(s.baseMinutes) * growth)
			}
			if s.baseMiles > 0 {
				w.DistanceMiles = s.baseMiles * growth
			}
			workouts = append(workouts, w)
		}
	}
	return workouts
}

func sprintBeginner() SeedTemplate {
	return SeedTemplate{
		Template: domain.PlanTemplate{
			Name:            "Sprint Triathlon - First Timer",
			Slug:            "sprint-first-timer",
			DistanceType:    domain.DistanceSprint,
			ExperienceLevel: domain.LevelBeginner,
			DurationWeeks:   8,
			WeeklyHoursMin:  3,
			WeeklyHoursMax:  5,
			Description:     "Eight weeks from couch-adjacent to a sprint finish line. Three swims, rides and runs a week plus one rest day you are not allowed to skip.",
			IsActive:        true,
			CreatedBy:       "system",
		},
		Workouts: buildWeeks(8, []daySlot{
			{day: 1, discipline: domain.DisciplineRest, workoutType: "recovery", description: "Full rest day."},
			{day: 2, discipline: domain.DisciplineSwim, workoutType: "technique", baseMinutes: 30, baseMiles: 0.5, weeklyGrowthPct: 5, intensity: "Easy", description: "Drill-focused pool session."},
			{day: 3, discipline: domain.DisciplineBike, workoutType: "base", baseMinutes: 45, baseMiles: 10, weeklyGrowthPct: 8, intensity: "Zone 2", description: "Steady aerobic ride."},
			{day: 4, discipline: domain.DisciplineRun, workoutType: "base", baseMinutes: 30, baseMiles: 3, weeklyGrowthPct: 6, intensity: "Conversational", description: "Easy run, walk breaks welcome."},
			{day: 6, discipline: domain.DisciplineBrick, workoutType: "race_pace", baseMinutes: 60, weeklyGrowthPct: 8, intensity: "Moderate", description: "Bike then a short transition run."},
			{day: 7, discipline: domain.DisciplineStrength, workoutType: "base", baseMinutes: 30, intensity: "Light", description: "Core and mobility circuit."},
		}),
	}
}

func olympicIntermediate() SeedTemplate {
	return SeedTemplate{
		Template: domain.PlanTemplate{
			Name:            "Olympic Distance Builder",
			Slug:            "olympic-builder",
			DistanceType:    domain.DistanceOlympic,
			ExperienceLevel: domain.LevelIntermediate,
			DurationWeeks:   12,
			WeeklyHoursMin:  6,
			WeeklyHoursMax:  9,
			Description:     "Twelve-week build for athletes with a sprint or two behind them. Two sessions per discipline most weeks with a long brick on the weekend.",
			IsActive:        true,
			CreatedBy:       "system",
		},
		Workouts: buildWeeks(12, []daySlot{
			{day: 1, discipline: domain.DisciplineSwim, workoutType: "intervals", baseMinutes: 45, baseMiles: 1, weeklyGrowthPct: 4, intensity: "Threshold", description: "Main set of 100s at threshold pace."},
			{day: 2, discipline: domain.DisciplineRun, workoutType: "tempo", baseMinutes: 40, baseMiles: 5, weeklyGrowthPct: 5, intensity: "Tempo", description: "Warmup, 20 minutes at tempo, cooldown."},
			{day: 3, discipline: domain.DisciplineBike, workoutType: "intervals", baseMinutes: 60, baseMiles: 18, weeklyGrowthPct: 5, intensity: "Zone 4", description: "VO2 intervals on the trainer."},
			{day: 4, discipline: domain.DisciplineSwim, workoutType: "technique", baseMinutes: 40, baseMiles: 1, weeklyGrowthPct: 3, intensity: "Easy", description: "Open-water skills when possible."},
			{day: 5, discipline: domain.DisciplineRest, workoutType: "recovery", description: "Full rest day."},
			{day: 6, discipline: domain.DisciplineBrick, workoutType: "long", baseMinutes: 120, weeklyGrowthPct: 6, intensity: "Zone 2-3", description: "Long ride into a race-pace run off the bike."},
			{day: 7, discipline: domain.DisciplineRun, workoutType: "long", baseMinutes: 60, baseMiles: 7, weeklyGrowthPct: 5, intensity: "Zone 2", description: "Long steady run."},
		}),
	}
}

func halfIronAdvanced() SeedTemplate {
	return SeedTemplate{
		Template: domain.PlanTemplate{
			Name:            "70.3 Advanced Block",
			Slug:            "halfiron-advanced",
			DistanceType:    domain.DistanceHalf,
			ExperienceLevel: domain.LevelAdvanced,
			DurationWeeks:   16,
			WeeklyHoursMin:  9,
			WeeklyHoursMax:  13,
			Description:     "Sixteen-week half-iron block for experienced racers chasing a time. High swim frequency and double-session weekends.",
			IsActive:        true,
			CreatedBy:       "system",
		},
		Workouts: buildWeeks(16, []daySlot{
			{day: 1, discipline: domain.DisciplineSwim, workoutType: "intervals", baseMinutes: 60, baseMiles: 1.4, weeklyGrowthPct: 3, intensity: "Threshold", description: "Long course intervals."},
			{day: 2, discipline: domain.DisciplineBike, workoutType: "tempo", baseMinutes: 75, baseMiles: 22, weeklyGrowthPct: 4, intensity: "Sweet spot", description: "Sustained sweet-spot blocks."},
			{day: 3, discipline: domain.DisciplineRun, workoutType: "intervals", baseMinutes: 50, baseMiles: 6, weeklyGrowthPct: 4, intensity: "Zone 4", description: "Track or treadmill intervals."},
			{day: 4, discipline: domain.DisciplineSwim, workoutType: "base", baseMinutes: 50, baseMiles: 1.2, weeklyGrowthPct: 3, intensity: "Zone 2", description: "Aerobic swim with pull work."},
			{day: 5, discipline: domain.DisciplineStrength, workoutType: "base", baseMinutes: 40, intensity: "Moderate", description: "Heavy lower-body and core."},
			{day: 6, discipline: domain.DisciplineBrick, workoutType: "long", baseMinutes: 180, weeklyGrowthPct: 5, intensity: "Race effort", description: "Race-simulation brick."},
			{day: 7, discipline: domain.DisciplineRun, workoutType: "long", baseMinutes: 80, baseMiles: 10, weeklyGrowthPct: 4, intensity: "Zone 2", description: "Long run with race-pace finish."},
		}),
	}
}

// Templates returns every system template with its workouts, in catalog
// order. Each call builds fresh copies, so callers may assign IDs on the
// returned values without corrupting the seeds.
func Templates() []SeedTemplate {
	return []SeedTemplate{sprintBeginner(), olympicIntermediate(), halfIronAdvanced()}
}
