package scheduling

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/pkg/pagination"
)

// Handler exposes scheduling over HTTP.
type Handler struct {
	svc                *Service
	defaultSlotMinutes int
}

func NewHandler(svc *Service, defaultSlotMinutes int) *Handler {
	return &Handler{svc: svc, defaultSlotMinutes: defaultSlotMinutes}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/availabilities", h.createAvailability, auth.RequireKind(auth.RoleDoctor))
	g.DELETE("/availabilities/:id", h.deleteAvailability, auth.RequireKind(auth.RoleDoctor))
	g.GET("/doctors/:id/availabilities", h.listAvailability)

	g.POST("/appointments", h.book, auth.RequireKind(auth.RolePatient, auth.RoleDoctor))
	g.GET("/appointments", h.list)
	g.GET("/appointments/:id", h.get)
	g.PUT("/appointments/:id", h.update, auth.RequireKind(auth.RoleDoctor))
	g.POST("/appointments/:id/cancel", h.cancel)
	g.GET("/patients/:id/appointments", h.listForPatient)
	g.GET("/doctors/:id/appointments", h.listForDoctor)

	g.POST("/availability-check", h.availabilityCheck)
}

// httpError maps domain sentinels onto HTTP status codes.
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrOutsideAvailability),
		errors.Is(err, ErrDuplicateAvailability):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidInterval),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidSlotDuration),
		errors.Is(err, ErrInvalidStatus):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return err
}

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

func (h *Handler) createAvailability(c echo.Context) error {
	var draft AvailabilityDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	actor := auth.RoleFromContext(c.Request().Context())
	if draft.DoctorID == uuid.Nil && actor.IsDoctor() {
		draft.DoctorID = actor.ProfileID
	}
	av, err := h.svc.CreateAvailability(c.Request().Context(), actor, draft)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, av)
}

func (h *Handler) deleteAvailability(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actor := auth.RoleFromContext(c.Request().Context())
	if err := h.svc.DeleteAvailability(c.Request().Context(), actor, id); err != nil {
		return httpError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listAvailability(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	items, err := h.svc.ListAvailability(c.Request().Context(), id)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*Availability{}
	}
	return c.JSON(http.StatusOK, items)
}

type bookingRequest struct {
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"date"`
	Start     TimeOfDay `json:"start_time"`
	End       TimeOfDay `json:"end_time"`
	Reason    string    `json:"reason"`
}

func (h *Handler) book(c echo.Context) error {
	var req bookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return httpError(err)
	}
	actor := auth.RoleFromContext(c.Request().Context())
	if req.PatientID == uuid.Nil && actor.IsPatient() {
		req.PatientID = actor.ProfileID
	}
	appt, err := h.svc.Book(c.Request().Context(), actor, BookingDraft{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      date,
		Start:     req.Start,
		End:       req.End,
		Reason:    req.Reason,
	})
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (h *Handler) get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actor := auth.RoleFromContext(c.Request().Context())
	appt, err := h.svc.Get(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) list(c echo.Context) error {
	actor := auth.RoleFromContext(c.Request().Context())
	p := pagination.FromContext(c)

	var f AppointmentFilter
	if v := c.QueryParam("doctor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid doctor_id")
		}
		f.DoctorID = &id
	}
	if v := c.QueryParam("patient_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid patient_id")
		}
		f.PatientID = &id
	}
	if v := c.QueryParam("date"); v != "" {
		d, err := ParseDate(v)
		if err != nil {
			return httpError(err)
		}
		f.Date = &d
	}
	if v := c.QueryParam("status"); v != "" {
		st := AppointmentStatus(v)
		if !st.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
		}
		f.Status = &st
	}

	items, total, err := h.svc.List(c.Request().Context(), actor, f, p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

func (h *Handler) listForPatient(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.listFiltered(c, AppointmentFilter{PatientID: &id})
}

func (h *Handler) listForDoctor(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.listFiltered(c, AppointmentFilter{DoctorID: &id})
}

func (h *Handler) listFiltered(c echo.Context, f AppointmentFilter) error {
	actor := auth.RoleFromContext(c.Request().Context())
	p := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), actor, f, p.Limit, p.Offset)
	if err != nil {
		return httpError(err)
	}
	if items == nil {
		items = []*Appointment{}
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, p.Limit, p.Offset))
}

type updateRequest struct {
	Date   *string            `json:"date"`
	Start  *TimeOfDay         `json:"start_time"`
	End    *TimeOfDay         `json:"end_time"`
	Status *AppointmentStatus `json:"status"`
	Reason *string            `json:"reason"`
	Notes  *string            `json:"notes"`
}

func (h *Handler) update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	patch := AppointmentPatch{
		Start:  req.Start,
		End:    req.End,
		Status: req.Status,
		Reason: req.Reason,
		Notes:  req.Notes,
	}
	if req.Date != nil {
		d, err := ParseDate(*req.Date)
		if err != nil {
			return httpError(err)
		}
		patch.Date = &d
	}
	actor := auth.RoleFromContext(c.Request().Context())
	appt, err := h.svc.Update(c.Request().Context(), actor, id, patch)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

func (h *Handler) cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	actor := auth.RoleFromContext(c.Request().Context())
	appt, err := h.svc.Cancel(c.Request().Context(), actor, id)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, appt)
}

type availabilityCheckRequest struct {
	DoctorID    uuid.UUID `json:"doctor_id"`
	Date        string    `json:"date"`
	SlotMinutes int       `json:"slot_minutes"`
}

type availabilityCheckResponse struct {
	DoctorID       uuid.UUID `json:"doctor_id"`
	Date           string    `json:"date"`
	SlotMinutes    int       `json:"slot_minutes"`
	AvailableSlots []Slot    `json:"available_slots"`
}

func (h *Handler) availabilityCheck(c echo.Context) error {
	var req availabilityCheckRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	date, err := ParseDate(req.Date)
	if err != nil {
		return httpError(err)
	}
	if req.SlotMinutes == 0 {
		req.SlotMinutes = h.defaultSlotMinutes
	}
	slots, err := h.svc.FreeSlots(c.Request().Context(), req.DoctorID, date, req.SlotMinutes)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, availabilityCheckResponse{
		DoctorID:       req.DoctorID,
		Date:           req.Date,
		SlotMinutes:    req.SlotMinutes,
		AvailableSlots: slots,
	})
}
