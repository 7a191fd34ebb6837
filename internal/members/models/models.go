// Package models holds the member domain types shared by the store, the
// match engine, and the HTTP handlers.
package models

import (
	"strconv"
	"time"

	"github.com/pauloqxm/adatualiza/internal/members/schema"
	"github.com/pauloqxm/adatualiza/pkg/format"
	"github.com/pauloqxm/adatualiza/pkg/normalize"
	"github.com/pauloqxm/adatualiza/pkg/validate"
)

// Member is one row of the worksheet. All persisted fields are strings, the
// way the sheet stores them; parsed accessors live alongside.
//
// RowPosition is the 1-based physical row index captured at load time. It is
// never persisted: rows shift under concurrent edits, so a position is only
// valid against the snapshot it was read from.
type Member struct {
	MemberID      string `json:"member_id"`
	ExternalCode  string `json:"external_code"`
	BirthDate     string `json:"birth_date"`
	MotherName    string `json:"mother_name"`
	FullName      string `json:"full_name"`
	NationalID    string `json:"national_id"`
	Phone         string `json:"phone"`
	Neighborhood  string `json:"neighborhood"`
	Address       string `json:"address"`
	FatherName    string `json:"father_name"`
	Nationality   string `json:"nationality"`
	Birthplace    string `json:"birthplace"`
	MaritalStatus string `json:"marital_status"`
	BaptismDate   string `json:"baptism_date_text"`
	Congregation  string `json:"congregation"`
	UpdatedAt     string `json:"updated_at"`

	RowPosition int `json:"row_position"`
}

// FromColumns builds a Member from a column→value mapping produced by the
// loader after schema reconciliation.
func FromColumns(cols map[string]string, rowPosition int) Member {
	get := func(name string) string { return normalize.Clean(cols[name]) }
	return Member{
		MemberID:      get(schema.ColMemberID),
		ExternalCode:  get(schema.ColExternalCode),
		BirthDate:     get(schema.ColBirthDate),
		MotherName:    get(schema.ColMotherName),
		FullName:      get(schema.ColFullName),
		NationalID:    get(schema.ColNationalID),
		Phone:         get(schema.ColPhone),
		Neighborhood:  get(schema.ColNeighborhood),
		Address:       get(schema.ColAddress),
		FatherName:    get(schema.ColFatherName),
		Nationality:   get(schema.ColNationality),
		Birthplace:    get(schema.ColBirthplace),
		MaritalStatus: get(schema.ColMaritalStatus),
		BaptismDate:   get(schema.ColBaptismDate),
		Congregation:  get(schema.ColCongregation),
		UpdatedAt:     get(schema.ColUpdatedAt),
		RowPosition:   rowPosition,
	}
}

// Column returns the raw value for a schema column name.
func (m Member) Column(name string) string {
	switch name {
	case schema.ColMemberID:
		return m.MemberID
	case schema.ColExternalCode:
		return m.ExternalCode
	case schema.ColBirthDate:
		return m.BirthDate
	case schema.ColMotherName:
		return m.MotherName
	case schema.ColFullName:
		return m.FullName
	case schema.ColNationalID:
		return m.NationalID
	case schema.ColPhone:
		return m.Phone
	case schema.ColNeighborhood:
		return m.Neighborhood
	case schema.ColAddress:
		return m.Address
	case schema.ColFatherName:
		return m.FatherName
	case schema.ColNationality:
		return m.Nationality
	case schema.ColBirthplace:
		return m.Birthplace
	case schema.ColMaritalStatus:
		return m.MaritalStatus
	case schema.ColBaptismDate:
		return m.BaptismDate
	case schema.ColCongregation:
		return m.Congregation
	case schema.ColUpdatedAt:
		return m.UpdatedAt
	}
	return ""
}

// ParsedBirthDate parses the stored birth date. ok=false flags unparseable
// legacy data without failing the row.
func (m Member) ParsedBirthDate() (time.Time, bool) {
	return format.ParseDate(m.BirthDate)
}

// NumericID parses member_id, reporting ok=false for blank or junk values.
func (m Member) NumericID() (int, bool) {
	d := normalize.OnlyDigits(m.MemberID)
	if d == "" {
		return 0, false
	}
	n, err := strconv.Atoi(d)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Update is a partial column→value payload for append and in-place update.
// Fields are pointers so "not mentioned" and "set to empty" stay distinct:
// nil fields are left untouched by RecordStore.Update.
type Update struct {
	ExternalCode  *string `json:"external_code,omitempty"`
	BirthDate     *string `json:"birth_date,omitempty"`
	MotherName    *string `json:"mother_name,omitempty"`
	FullName      *string `json:"full_name,omitempty"`
	NationalID    *string `json:"national_id,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Neighborhood  *string `json:"neighborhood,omitempty"`
	Address       *string `json:"address,omitempty"`
	FatherName    *string `json:"father_name,omitempty"`
	Nationality   *string `json:"nationality,omitempty"`
	Birthplace    *string `json:"birthplace,omitempty"`
	MaritalStatus *string `json:"marital_status,omitempty"`
	BaptismDate   *string `json:"baptism_date_text,omitempty"`
	Congregation  *string `json:"congregation,omitempty"`

	// memberID and updatedAt are assigned by the service, never by callers.
	memberID  *string
	updatedAt *string
}

// SetMemberID stamps the assigned id. Only the registration path calls this.
func (u *Update) SetMemberID(id int) {
	s := strconv.Itoa(id)
	u.memberID = &s
}

// SetUpdatedAt stamps the audit timestamp for this write.
func (u *Update) SetUpdatedAt(ts string) {
	u.updatedAt = &ts
}

// Columns flattens the set fields into a column→value map. Unset (nil)
// fields are absent from the map, which is what makes partial updates work.
func (u Update) Columns() map[string]string {
	out := make(map[string]string)
	put := func(name string, v *string) {
		if v != nil {
			out[name] = normalize.Clean(*v)
		}
	}
	put(schema.ColMemberID, u.memberID)
	put(schema.ColExternalCode, u.ExternalCode)
	put(schema.ColBirthDate, u.BirthDate)
	put(schema.ColMotherName, u.MotherName)
	put(schema.ColFullName, u.FullName)
	put(schema.ColNationalID, u.NationalID)
	put(schema.ColPhone, u.Phone)
	put(schema.ColNeighborhood, u.Neighborhood)
	put(schema.ColAddress, u.Address)
	put(schema.ColFatherName, u.FatherName)
	put(schema.ColNationality, u.Nationality)
	put(schema.ColBirthplace, u.Birthplace)
	put(schema.ColMaritalStatus, u.MaritalStatus)
	put(schema.ColBaptismDate, u.BaptismDate)
	put(schema.ColCongregation, u.Congregation)
	put(schema.ColUpdatedAt, u.updatedAt)
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Validate checks every rule a save must satisfy and reports all violations
// at once, so a single resubmission can fix everything.
func (u Update) Validate(today time.Time) validate.Errors {
	var errs validate.Errors

	cols := u.Columns()
	for _, name := range schema.Columns {
		label, required := schema.Required[name]
		if !required || name == schema.ColBirthDate {
			continue
		}
		if normalize.IsEmpty(cols[name]) {
			errs.Addf("%s é obrigatório", label)
		}
	}

	birth, ok := format.ParseDate(deref(u.BirthDate))
	if !ok {
		errs.Addf("%s é obrigatório", schema.Required[schema.ColBirthDate])
	} else {
		errs.Add(validate.BirthDate(birth, today))
	}

	errs.Add(validate.CPF(deref(u.NationalID)))
	errs.Add(validate.Phone(deref(u.Phone)))
	errs.Add(validate.FullName(deref(u.FullName)))

	return errs
}

// Formatted returns a copy with the maskable fields in canonical stored
// form: masked CPF and phone, dd/mm/yyyy birth date.
func (u Update) Formatted() Update {
	if u.NationalID != nil {
		masked := format.CPF(*u.NationalID)
		u.NationalID = &masked
	}
	if u.Phone != nil {
		masked := format.Phone(*u.Phone)
		u.Phone = &masked
	}
	if u.BirthDate != nil {
		if d, ok := format.ParseDate(*u.BirthDate); ok {
			canonical := format.Date(d)
			u.BirthDate = &canonical
		}
	}
	return u
}
