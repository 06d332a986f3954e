package errors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
)

// NotFoundError indicates a lookup found nothing. The router treats this as
// an empty result, not a failure.
type NotFoundError struct {
	Resource string
	Key      string
}

func NewNotFound(resource, key string) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: key}
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.Key)
}

func (e *NotFoundError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusNotFound, e.Error()).AddMetaValue("resource", e.Resource)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// UnauthorizedError indicates an ownership check failed.
type UnauthorizedError struct {
	Reason string
}

func NewUnauthorized(reason string) *UnauthorizedError {
	return &UnauthorizedError{Reason: reason}
}

func (e *UnauthorizedError) Error() string {
	return e.Reason
}

func (e *UnauthorizedError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusForbidden, e.Error())
}

func IsUnauthorized(err error) bool {
	var ue *UnauthorizedError
	return errors.As(err, &ue)
}

// SlotUnavailableError indicates another booking already occupies the
// (time slot, date) pair. Also returned when the store rejects the insert
// with a unique violation, since that is the same condition lost by a race.
type SlotUnavailableError struct {
	TimeSlotID string
	Date       string
}

func NewSlotUnavailable(timeSlotID, date string) *SlotUnavailableError {
	return &SlotUnavailableError{TimeSlotID: timeSlotID, Date: date}
}

func (e *SlotUnavailableError) Error() string {
	return fmt.Sprintf("time slot %s is not available on %s", e.TimeSlotID, e.Date)
}

func (e *SlotUnavailableError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusConflict, e.Error()).AddMetaValue("time_slot_id", e.TimeSlotID).AddMetaValue("date", e.Date)
}

func IsSlotUnavailable(err error) bool {
	var se *SlotUnavailableError
	return errors.As(err, &se)
}

// DuplicateBookingError indicates the same user already holds this exact
// (time slot, date) booking.
type DuplicateBookingError struct {
	TimeSlotID string
	Date       string
}

func NewDuplicateBooking(timeSlotID, date string) *DuplicateBookingError {
	return &DuplicateBookingError{TimeSlotID: timeSlotID, Date: date}
}

func (e *DuplicateBookingError) Error() string {
	return fmt.Sprintf("you already have a booking for time slot %s on %s", e.TimeSlotID, e.Date)
}

func (e *DuplicateBookingError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusConflict, e.Error())
}

func IsDuplicateBooking(err error) bool {
	var de *DuplicateBookingError
	return errors.As(err, &de)
}

// ConstraintViolationError indicates the store rejected a write because it
// would violate a uniqueness constraint.
type ConstraintViolationError struct {
	Constraint string
	Err        error
}

func NewConstraintViolation(constraint string, err error) *ConstraintViolationError {
	return &ConstraintViolationError{Constraint: constraint, Err: err}
}

func (e *ConstraintViolationError) Error() string {
	return fmt.Sprintf("constraint violation on %s", e.Constraint)
}

func (e *ConstraintViolationError) Unwrap() error {
	return e.Err
}

func (e *ConstraintViolationError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusConflict, e.Error()).AddMetaValue("constraint", e.Constraint)
}

func IsConstraintViolation(err error) bool {
	var ce *ConstraintViolationError
	return errors.As(err, &ce)
}

// StoreError is an infrastructure failure from the backing store. It carries
// the provider error code and is never surfaced to the end user verbatim.
type StoreError struct {
	Code string
	Err  error
}

func NewStoreError(code string, err error) *StoreError {
	return &StoreError{Code: code, Err: err}
}

func (e *StoreError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("store error: %v", e.Err)
	}
	return fmt.Sprintf("store error (%s): %v", e.Code, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}

// StoreTimeoutError indicates the caller-enforced store timeout elapsed.
type StoreTimeoutError struct {
	Op string
}

func NewStoreTimeout(op string) *StoreTimeoutError {
	return &StoreTimeoutError{Op: op}
}

func (e *StoreTimeoutError) Error() string {
	return fmt.Sprintf("store timeout during %s", e.Op)
}

func (e *StoreTimeoutError) ToHTTPError() *httperror.HTTPError {
	return httperror.NewHTTPError(http.StatusGatewayTimeout, "store timeout")
}

func IsStoreTimeout(err error) bool {
	var te *StoreTimeoutError
	return errors.As(err, &te)
}

// httpConvertible is satisfied by every domain error in this package.
type httpConvertible interface {
	ToHTTPError() *httperror.HTTPError
}

// ToHTTPError maps a domain error anywhere in the chain to its HTTP
// representation. Returns nil when the chain holds no domain error.
func ToHTTPError(err error) *httperror.HTTPError {
	var hc httpConvertible
	if errors.As(err, &hc) {
		return hc.ToHTTPError()
	}
	return nil
}
