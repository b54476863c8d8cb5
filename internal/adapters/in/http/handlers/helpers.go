// internal/adapters/in/http/handlers/helpers.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	usecase "storefront/internal/application/usecase"
	catdom "storefront/internal/domain/category"
	odom "storefront/internal/domain/order"
	paydom "storefront/internal/domain/payment"
	pdom "storefront/internal/domain/product"
	udom "storefront/internal/domain/user"
)

const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeFail answers {success:false, message}.
func writeFail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "message": msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody))
	if err := dec.Decode(dst); err != nil {
		writeFail(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

var errorMessages = []struct {
	err    error
	status int
	msg    string
}{
	{udom.ErrConflict, http.StatusConflict, "Already registered, please login"},
	{udom.ErrNotFound, http.StatusNotFound, "Email is not registered"},
	{usecase.ErrWrongPassword, http.StatusUnauthorized, "Invalid Password"},
	{usecase.ErrWrongAnswer, http.StatusNotFound, "Wrong Email Or Answer"},
	{usecase.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{usecase.ErrForbidden, http.StatusForbidden, "Forbidden"},
	{usecase.ErrUnknownProduct, http.StatusBadRequest, "Cart contains an unknown product"},
	{catdom.ErrConflict, http.StatusConflict, "Category Already Exists"},
	{catdom.ErrNotFound, http.StatusNotFound, "Category not found"},
	{pdom.ErrNotFound, http.StatusNotFound, "Product not found"},
	{pdom.ErrConflict, http.StatusConflict, "Product already exists"},
	{pdom.ErrPhotoTooBig, http.StatusBadRequest, "Photo is required and should be less than 1mb"},
	{odom.ErrNotFound, http.StatusNotFound, "Order not found"},
	{paydom.ErrMissingNonce, http.StatusBadRequest, "Payment nonce is required"},
	{paydom.ErrEmptyCart, http.StatusBadRequest, "Cart is empty"},
}

var badRequestErrors = []error{
	usecase.ErrInvalidArgument,
	udom.ErrInvalidName, udom.ErrInvalidEmail, udom.ErrInvalidPassword,
	udom.ErrInvalidPhone, udom.ErrInvalidAddress, udom.ErrInvalidAnswer,
	catdom.ErrInvalidName,
	pdom.ErrInvalidName, pdom.ErrInvalidDesc, pdom.ErrInvalidPrice, pdom.ErrInvalidCat, pdom.ErrInvalidQty,
	odom.ErrInvalidStatus,
}

// classifyError maps usecase/domain errors to status and client message.
func classifyError(err error) (int, string) {
	for _, e := range errorMessages {
		if errors.Is(err, e.err) {
			return e.status, e.msg
		}
	}
	for _, e := range badRequestErrors {
		if errors.Is(err, e) {
			return http.StatusBadRequest, err.Error()
		}
	}
	return http.StatusInternalServerError, "internal server error"
}

func writeUsecaseErr(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classifyError(err)
	if status >= 500 {
		log.Printf("[http] error method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
	writeFail(w, status, msg)
}

func parseIntDefault(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

// splitCSV parses "a,b,c" / "a, b, c" into []string (empty trimmed items are removed).
func splitCSV(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
