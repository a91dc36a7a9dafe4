package services

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errUndecodableFile = errors.New("file is empty or not decodable")

// decodeImportFile tries utf-8 with BOM, plain utf-8, then latin-1.
func decodeImportFile(data []byte) (string, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return "", errUndecodableFile
	}
	if bytes.HasPrefix(data, utf8BOM) {
		stripped := data[len(utf8BOM):]
		if utf8.Valid(stripped) {
			return string(stripped), nil
		}
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", errUndecodableFile
	}
	return string(decoded), nil
}

// sniffDelimiter picks between ';' and ',' by counting them on the header
// line. Ties go to the comma.
func sniffDelimiter(headerLine string) rune {
	if strings.Count(headerLine, ";") > strings.Count(headerLine, ",") {
		return ';'
	}
	return ','
}

// Column roles recognized in import files.
const (
	colProduct      = "product"
	colQuantity     = "quantity"
	colUnitPrice    = "unit_price"
	colTotal        = "total"
	colStatus       = "status"
	colCustomerName = "customer_name"
	colFirstName    = "first_name"
	colLastName     = "last_name"
	colEmail        = "email"
	colPhone        = "phone"
)

// headerAliases maps normalized header cells (English and French) to column
// roles.
var headerAliases = map[string]string{
	"product":        colProduct,
	"product name":   colProduct,
	"item":           colProduct,
	"article":        colProduct,
	"produit":        colProduct,
	"nom du produit": colProduct,
	"designation":    colProduct,
	"désignation":    colProduct,

	"quantity": colQuantity,
	"qty":      colQuantity,
	"quantite": colQuantity,
	"quantité": colQuantity,
	"qte":      colQuantity,
	"qté":      colQuantity,

	"price":         colUnitPrice,
	"unit price":    colUnitPrice,
	"prix":          colUnitPrice,
	"prix unitaire": colUnitPrice,

	"total":         colTotal,
	"total price":   colTotal,
	"montant":       colTotal,
	"montant total": colTotal,
	"total ttc":     colTotal,

	"status":       colStatus,
	"order status": colStatus,
	"statut":       colStatus,
	"etat":         colStatus,
	"état":         colStatus,

	"customer":      colCustomerName,
	"customer name": colCustomerName,
	"client":        colCustomerName,
	"nom du client": colCustomerName,
	"nom complet":   colCustomerName,

	"first name": colFirstName,
	"firstname":  colFirstName,
	"prenom":     colFirstName,
	"prénom":     colFirstName,

	"last name": colLastName,
	"lastname":  colLastName,
	"nom":       colLastName,

	"email":          colEmail,
	"e-mail":         colEmail,
	"mail":           colEmail,
	"courriel":       colEmail,
	"customer email": colEmail,
	"email client":   colEmail,

	"phone":        colPhone,
	"phone number": colPhone,
	"telephone":    colPhone,
	"téléphone":    colPhone,
	"tel":          colPhone,
	"tél":          colPhone,
	"mobile":       colPhone,
}

// mapImportHeader resolves each header cell to a column role; unknown cells
// map to -1 positions and are ignored.
func mapImportHeader(header []string) map[string]int {
	columns := map[string]int{}
	for i, cell := range header {
		normalized := normalizeHeaderCell(cell)
		role, ok := headerAliases[normalized]
		if !ok {
			continue
		}
		if _, seen := columns[role]; seen {
			continue
		}
		columns[role] = i
	}
	return columns
}

func normalizeHeaderCell(cell string) string {
	cell = strings.TrimPrefix(cell, string(utf8BOM))
	cell = strings.ToLower(strings.TrimSpace(cell))
	cell = strings.ReplaceAll(cell, "_", " ")
	return strings.Join(strings.Fields(cell), " ")
}

// parseImportQuantity coerces a cell to an integer quantity. Decimal values
// (including decimal-comma) are floored; unparseable or sub-1 values clamp
// to 1.
func parseImportQuantity(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	if strings.Count(raw, ",") == 1 && !strings.Contains(raw, ".") {
		raw = strings.Replace(raw, ",", ".", 1)
	} else {
		raw = strings.ReplaceAll(raw, ",", "")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 1
	}
	q := int(f)
	if q < minLineQuantity {
		return minLineQuantity
	}
	if q > maxLineQuantity {
		return maxLineQuantity
	}
	return q
}

// parseImportPrice strips currency noise and handles both decimal-comma
// ("19,99") and thousands-comma ("1,299.00") conventions. Unparseable or
// negative values fall back to the default.
func parseImportPrice(raw string, fallback decimal.Decimal) decimal.Decimal {
	var b strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == ',' || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return fallback
	}

	commas := strings.Count(cleaned, ",")
	hasPeriod := strings.Contains(cleaned, ".")
	switch {
	case commas == 1 && !hasPeriod:
		cleaned = strings.Replace(cleaned, ",", ".", 1)
	case commas > 0:
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	value, err := decimal.NewFromString(cleaned)
	if err != nil || value.IsNegative() {
		return fallback
	}
	return value
}

// statusAliases maps English and French status words to the canonical order
// statuses. Unknown values default to pending.
var statusAliases = map[string]string{
	"pending":    "pending",
	"en attente": "pending",
	"attente":    "pending",
	"nouveau":    "pending",
	"new":        "pending",

	"processing":    "processing",
	"en cours":      "processing",
	"traitement":    "processing",
	"en traitement": "processing",

	"completed": "completed",
	"complete":  "completed",
	"complété":  "completed",
	"termine":   "completed",
	"terminé":   "completed",
	"livre":     "completed",
	"livré":     "completed",
	"expedie":   "completed",
	"expédié":   "completed",
	"shipped":   "completed",
	"delivered": "completed",
	"paid":      "completed",
	"paye":      "completed",
	"payé":      "completed",
	"done":      "completed",

	"cancelled": "cancelled",
	"canceled":  "cancelled",
	"annule":    "cancelled",
	"annulé":    "cancelled",
	"annulee":   "cancelled",
	"annulée":   "cancelled",
}

func canonicalOrderStatus(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if canonical, ok := statusAliases[normalized]; ok {
		return canonical
	}
	return "pending"
}

// splitFullName breaks "First Last" into first and last; a single token is
// treated as the first name.
func splitFullName(full string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(full))
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
