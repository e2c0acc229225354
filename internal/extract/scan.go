package extract

import (
	"strings"

	"ctdoc/internal"
	"ctdoc/internal/util"
)

// Column positions of the certificate layout. The label column is stable;
// a few fields shift between template revisions and get an alternate
// column tried second.
const (
	colLabel = 0

	colPackingType     = 2
	colPackingMaterial = 4
	colPackingSpec     = 6
	colPackingCompany  = 8

	colExpCode      = 0
	colExpItem      = 1
	colExpPeriod    = 4
	colExpCheck     = 5
	colExpStandard  = 6
	colExpResult    = 12
	colExpResultAlt = 11

	colNoteValue    = 2
	colNoteValueAlt = 1

	colScalarValue = 2

	colSideLabel    = 6
	colSideLabelAlt = 8
	colSideValue    = 7
	colSideValueAlt = 11

	colLabLabel = 2
	colLabValue = 6

	colApprovalHeader    = 6
	colApprovalHeaderAlt = 7
	colWriter            = 7
	colWriterAlt         = 8
	colReviewer          = 9
	colReviewerAlt       = 10
	colApprover          = 11
	colApproverAlt       = 12
)

const placeholderDash = "-"

// footnoteMarker closes trailing sections; any label starting with it
// ends the experiment and notes sections.
const footnoteMarker = "※"

// ScanResult carries everything one pass over a sheet produced. Scalars
// are last-match-wins; the slices preserve row-encounter order.
type ScanResult struct {
	TestNo          *string
	TestDate        *string
	ExpectedDate    *string
	ProductName     *string
	Customer        *string
	Developer       *string
	Requester       *string
	TestCount       *string
	TestQuantity    *string
	LabID           *string
	LabInfo         *string
	OptimumCapacity *string
	Writer          *string
	Reviewer        *string
	Approver        *string

	PackingInfo    []internal.PackingInfo
	ExperimentInfo []internal.ExperimentInfo
	SpecialNotes   []internal.SpecialNote
}

// scanner is the accumulator threaded through the pass. Each section flag
// has its own enter/exit trigger; the check order below mirrors the
// certificate reading order and matters because some sentinel texts are
// ambiguous across template languages.
type scanner struct {
	aliases Aliases

	inPacking    bool
	inExperiment bool
	inNotes      bool
	inApproval   bool

	prevCompany *string
	prevCode    *string

	result ScanResult
}

// Scan folds the row sequence into a ScanResult in a single forward pass.
// It cannot fail: malformed and missing cells read as blank and degrade
// to unset fields.
func Scan(rows []internal.Row, aliases Aliases) ScanResult {
	s := &scanner{aliases: aliases}
	for _, row := range rows {
		s.step(row)
	}
	if s.result.PackingInfo == nil {
		s.result.PackingInfo = []internal.PackingInfo{}
	}
	if s.result.ExperimentInfo == nil {
		s.result.ExperimentInfo = []internal.ExperimentInfo{}
	}
	if s.result.SpecialNotes == nil {
		s.result.SpecialNotes = []internal.SpecialNote{}
	}
	return s.result
}

func (s *scanner) step(row internal.Row) {
	head := label(row.Cell(colLabel))

	// Entering a section consumes the header row; exits are evaluated
	// before extraction so the terminating row is never section content.
	if !s.inPacking && matchAlias(head, s.aliases.PackingStart) {
		s.inPacking = true
		return
	}
	if s.inPacking && matchAlias(head, s.aliases.SectionEnd) {
		s.inPacking = false
	}
	if s.inPacking {
		s.packingRow(row)
	}

	s.labFields(row)

	if !s.inExperiment && matchAlias(head, s.aliases.ExperimentStart) {
		s.inExperiment = true
		return
	}
	if s.inExperiment && (matchAlias(head, s.aliases.SectionEnd) || strings.HasPrefix(head, footnoteMarker)) {
		s.inExperiment = false
	}
	if s.inExperiment {
		s.experimentRow(row)
	}

	if !s.inNotes && matchAlias(head, s.aliases.NotesStart) {
		s.inNotes = true
		return
	}
	if s.inNotes && strings.HasPrefix(head, footnoteMarker) {
		s.inNotes = false
	}
	if s.inNotes {
		s.noteRow(row)
	}

	s.scalarFields(row, head)

	if matchAlias(label(row.Cell(colApprovalHeader)), s.aliases.ApprovalHeader) ||
		matchAlias(label(row.Cell(colApprovalHeaderAlt)), s.aliases.ApprovalHeader) {
		s.inApproval = true
		return
	}
	if s.inApproval {
		s.approvalRow(row)
		s.inApproval = false
	}
}

func (s *scanner) packingRow(row internal.Row) {
	typ := Clean(row.Cell(colPackingType))
	if typ == nil {
		return
	}

	company := Clean(row.Cell(colPackingCompany))
	if company == nil {
		company = s.prevCompany
	} else {
		s.prevCompany = company
	}

	s.result.PackingInfo = append(s.result.PackingInfo, internal.PackingInfo{
		Type:     *typ,
		Material: Clean(row.Cell(colPackingMaterial)),
		Spec:     Clean(row.Cell(colPackingSpec)),
		Company:  company,
	})
}

func (s *scanner) experimentRow(row internal.Row) {
	item := Clean(row.Cell(colExpItem))
	if item == nil || *item == placeholderDash {
		return
	}

	code := Clean(row.Cell(colExpCode))
	if code == nil {
		code = s.prevCode
	} else {
		s.prevCode = code
	}

	result := util.FirstNonNil(Clean(row.Cell(colExpResult)), Clean(row.Cell(colExpResultAlt)))
	s.result.ExperimentInfo = append(s.result.ExperimentInfo, internal.ExperimentInfo{
		Code:     code,
		Item:     *item,
		Period:   Clean(row.Cell(colExpPeriod)),
		Check:    Clean(row.Cell(colExpCheck)),
		Standard: Clean(row.Cell(colExpStandard)),
		Result:   result,
	})

	// TMM202 rows double as the document-level optimum capacity reading.
	if code != nil && *code == s.aliases.OptimumCapacityCode && matchAlias(*item, s.aliases.OptimumCapacityItem) {
		s.result.OptimumCapacity = result
	}
}

func (s *scanner) noteRow(row internal.Row) {
	key := Clean(row.Cell(colLabel))
	if key == nil || *key == placeholderDash {
		return
	}
	value := util.FirstNonNil(Clean(row.Cell(colNoteValue)), Clean(row.Cell(colNoteValueAlt)))
	s.result.SpecialNotes = append(s.result.SpecialNotes, internal.SpecialNote{Key: *key, Value: value})
}

// labFields and scalarFields run on every row regardless of section
// state; a later matching row overwrites an earlier one.
func (s *scanner) labFields(row internal.Row) {
	sub := label(row.Cell(colLabLabel))
	if matchAlias(sub, s.aliases.LabID) {
		s.result.LabID = stripSpacesPtr(Clean(row.Cell(colLabValue)))
	}
	if matchAlias(sub, s.aliases.LabInfo) {
		s.result.LabInfo = Clean(row.Cell(colLabValue))
	}
}

func (s *scanner) scalarFields(row internal.Row, head string) {
	for _, prefix := range s.aliases.TestNoPrefix {
		if strings.HasPrefix(head, prefix) {
			s.result.TestNo = stripTestNoPrefix(Clean(row.Cell(colLabel)), prefix)
			break
		}
	}

	if matchAlias(head, s.aliases.TestDate) {
		s.result.TestDate = normalizeDatePtr(row.Cell(colScalarValue))
	}
	if matchAlias(head, s.aliases.ExpectedDate) {
		s.result.ExpectedDate = normalizeDatePtr(row.Cell(colScalarValue))
	}
	if matchAlias(head, s.aliases.ProductName) {
		s.result.ProductName = Clean(row.Cell(colScalarValue))
	}
	if matchAlias(head, s.aliases.Customer) {
		s.result.Customer = Clean(row.Cell(colScalarValue))
	}

	if v, ok := s.sideField(row, s.aliases.Developer); ok {
		s.result.Developer = v
	}
	if v, ok := s.sideField(row, s.aliases.Requester); ok {
		s.result.Requester = v
	}
	if v, ok := s.sideField(row, s.aliases.TestCount); ok {
		s.result.TestCount = v
	}
	if v, ok := s.sideField(row, s.aliases.TestQuantity); ok {
		s.result.TestQuantity = v
	}
}

// sideField reads the right-hand label/value pairs whose column position
// shifts between layouts: label in column 6 pairs with column 7, label in
// column 8 pairs with column 11.
func (s *scanner) sideField(row internal.Row, set []string) (*string, bool) {
	if matchAlias(label(row.Cell(colSideLabel)), set) {
		return Clean(row.Cell(colSideValue)), true
	}
	if matchAlias(label(row.Cell(colSideLabelAlt)), set) {
		return Clean(row.Cell(colSideValueAlt)), true
	}
	return nil, false
}

// approvalRow reads the single row following the approval header. Names
// are hand-centered in merged cells, so every space is stripped.
func (s *scanner) approvalRow(row internal.Row) {
	s.result.Writer = stripSpacesPtr(util.FirstNonNil(Clean(row.Cell(colWriter)), Clean(row.Cell(colWriterAlt))))
	s.result.Reviewer = stripSpacesPtr(util.FirstNonNil(Clean(row.Cell(colReviewer)), Clean(row.Cell(colReviewerAlt))))
	s.result.Approver = stripSpacesPtr(util.FirstNonNil(Clean(row.Cell(colApprover)), Clean(row.Cell(colApproverAlt))))
}

func stripSpacesPtr(v *string) *string {
	if v == nil {
		return nil
	}
	return util.StringPtr(util.StripSpaces(*v))
}

func stripTestNoPrefix(v *string, prefix string) *string {
	if v == nil {
		return nil
	}
	return util.StringPtr(strings.Replace(*v, prefix+" : ", "", 1))
}
