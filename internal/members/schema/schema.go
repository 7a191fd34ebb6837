// Package schema pins the worksheet's column contract. The sheet is an
// unversioned, concurrently edited store, so every read reconciles whatever
// header it finds against this list.
package schema

// Column names, in the order a fresh header row is written. Read paths accept
// any column order; only this write order is fixed.
const (
	ColMemberID      = "member_id"
	ColExternalCode  = "external_code"
	ColBirthDate     = "birth_date"
	ColMotherName    = "mother_name"
	ColFullName      = "full_name"
	ColNationalID    = "national_id"
	ColPhone         = "phone"
	ColNeighborhood  = "neighborhood"
	ColAddress       = "address"
	ColFatherName    = "father_name"
	ColNationality   = "nationality"
	ColBirthplace    = "birthplace"
	ColMaritalStatus = "marital_status"
	ColBaptismDate   = "baptism_date_text"
	ColCongregation  = "congregation"
	ColUpdatedAt     = "updated_at"
)

// Columns is the full schema in write order.
var Columns = []string{
	ColMemberID, ColExternalCode, ColBirthDate, ColMotherName, ColFullName,
	ColNationalID, ColPhone, ColNeighborhood, ColAddress, ColFatherName,
	ColNationality, ColBirthplace, ColMaritalStatus, ColBaptismDate,
	ColCongregation, ColUpdatedAt,
}

// Required maps mandatory columns to the label used in validation messages.
var Required = map[string]string{
	ColFullName:      "Nome completo",
	ColNationalID:    "CPF",
	ColBirthDate:     "Data de nascimento",
	ColPhone:         "WhatsApp/Telefone",
	ColNeighborhood:  "Bairro/Distrito",
	ColAddress:       "Endereço",
	ColMotherName:    "Nome da mãe",
	ColMaritalStatus: "Estado civil",
	ColCongregation:  "Congregação",
}

// ColumnLetter converts a 1-based column index to A1 notation using bijective
// base 26: 1=A, 26=Z, 27=AA. There is no digit zero, hence the n-1 fold.
func ColumnLetter(n int) string {
	var letters []byte
	for n > 0 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
		n /= 26
	}
	return string(letters)
}
