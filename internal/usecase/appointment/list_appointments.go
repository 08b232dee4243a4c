package appointment

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/sto-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/sto-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/sto-scheduler/internal/httperr"
	"github.com/BruksfildServices01/sto-scheduler/internal/models"
)

// FilterInput is the raw admin listing query.
type FilterInput struct {
	DateFrom     string
	DateTo       string
	BoxID        string
	ServiceID    string
	Status       string
	CustomerName string
	TimeFrom     string
	TimeTo       string
	PriceMin     string
	PriceMax     string
}

// Filter validates the query. Empty values impose no constraint.
func (in FilterInput) Filter() (domain.Filter, error) {
	var f domain.Filter
	fields := map[string]string{}

	date := func(name, v string) string {
		if v == "" {
			return ""
		}
		if _, err := schedule.ParseDate(v, time.UTC); err != nil {
			fields[name] = "Date must be in YYYY-MM-DD format."
		}
		return v
	}
	clock := func(name, v string) string {
		if v == "" {
			return ""
		}
		c, err := schedule.ParseClock(v)
		if err != nil {
			fields[name] = "Time must be in HH:MM format."
			return ""
		}
		return c.String()
	}
	id := func(name, v string) uint {
		if v == "" {
			return 0
		}
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil || n == 0 {
			fields[name] = "Must be a positive integer."
			return 0
		}
		return uint(n)
	}
	price := func(name, v string) *decimal.Decimal {
		if v == "" {
			return nil
		}
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			fields[name] = "Must be a non-negative number."
			return nil
		}
		return &d
	}

	f.DateFrom = date("date_from", in.DateFrom)
	f.DateTo = date("date_to", in.DateTo)
	f.TimeFrom = clock("time_from", in.TimeFrom)
	f.TimeTo = clock("time_to", in.TimeTo)
	f.BoxID = id("box_id", in.BoxID)
	f.ServiceID = id("service_id", in.ServiceID)
	f.PriceMin = price("price_min", in.PriceMin)
	f.PriceMax = price("price_max", in.PriceMax)
	f.CustomerName = strings.TrimSpace(in.CustomerName)

	if in.Status != "" {
		if _, ok := domain.ParseStatus(in.Status); !ok {
			fields["status"] = "Unknown status."
		}
		f.Status = in.Status
	}

	if len(fields) > 0 {
		return domain.Filter{}, httperr.ValidationFields(fields)
	}
	return f, nil
}

type ListAppointments struct {
	repo domain.Repository
}

func NewListAppointments(repo domain.Repository) *ListAppointments {
	return &ListAppointments{repo: repo}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	in FilterInput,
) ([]models.Appointment, error) {

	f, err := in.Filter()
	if err != nil {
		return nil, err
	}
	return uc.repo.FindByFilters(ctx, f)
}

type ListMyAppointments struct {
	repo domain.Repository
}

func NewListMyAppointments(repo domain.Repository) *ListMyAppointments {
	return &ListMyAppointments{repo: repo}
}

func (uc *ListMyAppointments) Execute(
	ctx context.Context,
	userID uint,
) ([]models.Appointment, error) {

	customer, err := uc.repo.CustomerForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.repo.ListByCustomer(ctx, customer.ID)
}
