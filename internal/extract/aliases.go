package extract

import (
	"encoding/json"
	"os"
)

// Aliases holds the bilingual sentinel texts the scanner matches against.
// Template revisions add header variants over time, so the sets are data,
// not control flow: a JSON file can extend or replace any of them without
// touching the scanner.
type Aliases struct {
	PackingStart    []string `json:"packing_start"`
	ExperimentStart []string `json:"experiment_start"`
	NotesStart      []string `json:"notes_start"`
	ApprovalHeader  []string `json:"approval_header"`
	SectionEnd      []string `json:"section_end"`

	TestNoPrefix []string `json:"test_no_prefix"`
	TestDate     []string `json:"test_date"`
	ExpectedDate []string `json:"expected_date"`
	ProductName  []string `json:"product_name"`
	Customer     []string `json:"customer"`
	Developer    []string `json:"developer"`
	Requester    []string `json:"requester"`
	TestCount    []string `json:"test_count"`
	TestQuantity []string `json:"test_quantity"`
	LabID        []string `json:"lab_id"`
	LabInfo      []string `json:"lab_info"`

	OptimumCapacityCode string   `json:"optimum_capacity_code"`
	OptimumCapacityItem []string `json:"optimum_capacity_item"`
}

func DefaultAliases() Aliases {
	return Aliases{
		PackingStart:    []string{"포장재정보", "Component Info."},
		ExperimentStart: []string{"시험코드", "Test Code"},
		NotesStart:      []string{"시험 특이사항", "Test Remarks"},
		ApprovalHeader:  []string{"결재", "Approval"},
		SectionEnd:      []string{"처방정보", "내용물정보", "Formula Info."},

		TestNoPrefix: []string{"Test No"},
		TestDate:     []string{"시험일자", "Test Date"},
		ExpectedDate: []string{"판정예정일자", "Expected Date"},
		ProductName:  []string{"제품명", "Product Name"},
		Customer:     []string{"고객사명", "Customer"},
		Developer:    []string{"개발담당자", "Developer"},
		Requester:    []string{"시험의뢰자", "Requester"},
		TestCount:    []string{"시험의뢰차수", "Test Count"},
		TestQuantity: []string{"시험의뢰수량", "Test Quantity"},
		LabID:        []string{"처방번호", "Lab No."},
		LabInfo:      []string{"물성정보", "Lab Info."},

		OptimumCapacityCode: "TMM202",
		OptimumCapacityItem: []string{"적정용량", "적정 용량", "Optimum Capacity"},
	}
}

// LoadAliases overlays the defaults with any non-empty sets from a JSON
// file. An empty path returns the defaults unchanged.
func LoadAliases(path string) (Aliases, error) {
	aliases := DefaultAliases()
	if path == "" {
		return aliases, nil
	}

	blob, err := os.ReadFile(path)
	if err != nil {
		return Aliases{}, err
	}

	var override Aliases
	if err := json.Unmarshal(blob, &override); err != nil {
		return Aliases{}, err
	}

	merge := func(dst *[]string, src []string) {
		if len(src) > 0 {
			*dst = src
		}
	}
	merge(&aliases.PackingStart, override.PackingStart)
	merge(&aliases.ExperimentStart, override.ExperimentStart)
	merge(&aliases.NotesStart, override.NotesStart)
	merge(&aliases.ApprovalHeader, override.ApprovalHeader)
	merge(&aliases.SectionEnd, override.SectionEnd)
	merge(&aliases.TestNoPrefix, override.TestNoPrefix)
	merge(&aliases.TestDate, override.TestDate)
	merge(&aliases.ExpectedDate, override.ExpectedDate)
	merge(&aliases.ProductName, override.ProductName)
	merge(&aliases.Customer, override.Customer)
	merge(&aliases.Developer, override.Developer)
	merge(&aliases.Requester, override.Requester)
	merge(&aliases.TestCount, override.TestCount)
	merge(&aliases.TestQuantity, override.TestQuantity)
	merge(&aliases.LabID, override.LabID)
	merge(&aliases.LabInfo, override.LabInfo)
	merge(&aliases.OptimumCapacityItem, override.OptimumCapacityItem)
	if override.OptimumCapacityCode != "" {
		aliases.OptimumCapacityCode = override.OptimumCapacityCode
	}

	return aliases, nil
}

func matchAlias(value string, set []string) bool {
	for _, s := range set {
		if value == s {
			return true
		}
	}
	return false
}
