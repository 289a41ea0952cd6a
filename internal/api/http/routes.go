package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/holidayist/holiday-planner/internal/planner"
	"github.com/holidayist/holiday-planner/internal/store"
	"github.com/holidayist/holiday-planner/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, optimizer *planner.Optimizer) {
	v1 := app.Group("/api/v1")

	v1.Get("/weather/current", func(c *fiber.Ctx) error {
		locReq, err := parseLocationQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		sample, err := service.CurrentWeather(c.UserContext(), locReq.toLocation())
		if err != nil {
			return fiber.NewError(fiber.StatusBadGateway, "failed to fetch current weather")
		}
		return c.JSON(sample)
	})

	v1.Get("/weather/range", func(c *fiber.Ctx) error {
		var req rangeQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		loc := req.Location.toLocation()
		samples, err := service.SamplesForRange(c.UserContext(), loc, req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no weather data for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch weather data")
		}

		return c.JSON(fiber.Map{
			"location": loc,
			"from":     req.From,
			"to":       req.To,
			"samples":  samples,
		})
	})

	v1.Post("/plans/optimize", func(c *fiber.Ctx) error {
		var req optimizeRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		plan, activities, err := req.toPlan()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		updated, err := optimizer.Optimize(c.UserContext(), plan, activities)
		if err != nil {
			// An activity outside the plan range is the caller's data
			// problem, not ours.
			return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
		}

		return c.JSON(fiber.Map{
			"plan":       plan,
			"activities": updated,
		})
	})
}

// locationQuery holds query parameters for identifying a location.
type locationQuery struct {
	City    string `validate:"required"`
	Country string `validate:"required"`
}

func (l locationQuery) toLocation() weather.Location {
	return weather.Location{
		City:    l.City,
		Country: l.Country,
	}
}

func parseLocationQuery(c *fiber.Ctx) (locationQuery, error) {
	var q locationQuery

	q.City = c.Query("city")
	q.Country = c.Query("country")

	if err := validate.Struct(q); err != nil {
		return q, err
	}
	return q, nil
}

// rangeQuery holds query parameters for the range endpoint.
type rangeQuery struct {
	Location locationQuery
	From     time.Time `validate:"required"`
	To       time.Time `validate:"required,gtefield=From"`
}

func (r *rangeQuery) bind(c *fiber.Ctx) error {
	loc, err := parseLocationQuery(c)
	if err != nil {
		return err
	}
	r.Location = loc

	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	r.From = from
	r.To = to
	return nil
}

// optimizeRequest is the plan-optimization payload. Dates use "2006-01-02".
type optimizeRequest struct {
	Destination locationQuery     `json:"destination" validate:"required"`
	StartDate   string            `json:"startDate" validate:"required"`
	EndDate     string            `json:"endDate" validate:"required"`
	Activities  []activityPayload `json:"activities" validate:"required,min=1,dive"`
}

type activityPayload struct {
	ID               string `json:"id"`
	Name             string `json:"name" validate:"required"`
	Description      string `json:"description"`
	Date             string `json:"date" validate:"required"`
	Type             string `json:"type" validate:"required"`
	Location         string `json:"location"`
	WeatherDependent *bool  `json:"weatherDependent"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	TimeSlot         string `json:"timeSlot"`
}

func (r optimizeRequest) toPlan() (planner.Plan, []planner.Activity, error) {
	start, err := parseDate(r.StartDate)
	if err != nil {
		return planner.Plan{}, nil, err
	}
	end, err := parseDate(r.EndDate)
	if err != nil {
		return planner.Plan{}, nil, err
	}

	plan := planner.Plan{
		Destination: r.Destination.toLocation(),
		Start:       start,
		End:         end,
	}

	activities := make([]planner.Activity, 0, len(r.Activities))
	for _, p := range r.Activities {
		a, err := p.toActivity()
		if err != nil {
			return planner.Plan{}, nil, err
		}
		activities = append(activities, a)
	}
	return plan, activities, nil
}

func (p activityPayload) toActivity() (planner.Activity, error) {
	date, err := parseDate(p.Date)
	if err != nil {
		return planner.Activity{}, err
	}

	a := planner.Activity{
		Name:             p.Name,
		Description:      p.Description,
		Date:             date,
		Type:             planner.ActivityType(p.Type),
		Location:         p.Location,
		WeatherDependent: p.WeatherDependent,
		StartTime:        p.StartTime,
		EndTime:          p.EndTime,
		Slot:             planner.Slot(p.TimeSlot),
	}
	if p.ID != "" {
		id, err := uuid.Parse(p.ID)
		if err != nil {
			return planner.Activity{}, errors.New("invalid activity id: " + p.ID)
		}
		a.ID = id
	} else {
		a.ID = uuid.New()
	}
	return a, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, errors.New("invalid date; use YYYY-MM-DD")
	}
	return t.UTC(), nil
}

// parseTime tries to parse RFC3339, a plain date, or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse("2006-01-02", s); err == nil {
		return ts.UTC(), nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339, YYYY-MM-DD, or unix seconds")
}
