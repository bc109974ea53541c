// Package domain holds identifier types shared by every module.
//
// Identifiers are issued by the upstream services (users, vendors, products)
// or by this service's own stores (reports, actions, log entries). They are
// positive integers on the wire. Distinct named types keep a vendor id from
// being passed where a user id is expected.
package domain

import (
	"strconv"
	"strings"

	dErrors "soukscan/pkg/domain-errors"
)

type (
	UserID        int64
	AdminID       int64
	VendorID      int64
	ProductID     int64
	ReportID      int64
	ActionID      int64
	PriceReportID int64
	LogID         int64
)

func (id UserID) String() string        { return strconv.FormatInt(int64(id), 10) }
func (id AdminID) String() string       { return strconv.FormatInt(int64(id), 10) }
func (id VendorID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id ProductID) String() string     { return strconv.FormatInt(int64(id), 10) }
func (id ReportID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id ActionID) String() string      { return strconv.FormatInt(int64(id), 10) }
func (id PriceReportID) String() string { return strconv.FormatInt(int64(id), 10) }
func (id LogID) String() string         { return strconv.FormatInt(int64(id), 10) }

// maxIDLength bounds input before strconv sees it; int64 has at most 19 digits.
const maxIDLength = 19

func parsePositive(kind, raw string) (int64, error) {
	if raw == "" || strings.TrimSpace(raw) != raw || len(raw) > maxIDLength {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "invalid "+kind)
	}
	return v, nil
}

func ParseUserID(s string) (UserID, error) {
	v, err := parsePositive("user id", s)
	return UserID(v), err
}

func ParseAdminID(s string) (AdminID, error) {
	v, err := parsePositive("admin id", s)
	return AdminID(v), err
}

func ParseVendorID(s string) (VendorID, error) {
	v, err := parsePositive("vendor id", s)
	return VendorID(v), err
}

func ParseProductID(s string) (ProductID, error) {
	v, err := parsePositive("product id", s)
	return ProductID(v), err
}

func ParseReportID(s string) (ReportID, error) {
	v, err := parsePositive("report id", s)
	return ReportID(v), err
}

func ParsePriceReportID(s string) (PriceReportID, error) {
	v, err := parsePositive("price report id", s)
	return PriceReportID(v), err
}
