package service

import (
	"github.com/brokerbase/polisdesk/internal/property/domain"
)

// applyUpdate merges a partial update onto an existing record, one level
// deep for sub-objects. UpdatedAt is refreshed unconditionally.
func applyUpdate(existing domain.Property, req domain.UpdateRequest, now int64) domain.Property {
	out := existing

	if req.OwnerName.Present() {
		out.OwnerName = req.OwnerName.Or("")
	}
	if req.OwnerPhone.Present() {
		out.OwnerPhone = req.OwnerPhone.Or("")
	}
	if req.OwnerEmail.Present() {
		out.OwnerEmail = req.OwnerEmail.Or("")
	}
	if req.OwnerAddress.Present() {
		out.OwnerAddress = req.OwnerAddress.Or("")
	}
	if req.Notes.Present() {
		out.Notes = req.Notes.Or("")
	}
	if req.Status.Present() {
		out.Status = domain.Status(req.Status.Or(""))
	}

	if req.PropertyData != nil {
		out.PropertyData = mergePropertyData(existing.PropertyData, *req.PropertyData)
	}
	if req.InsuranceData != nil {
		out.InsuranceData = mergeInsuranceData(existing.InsuranceData, *req.InsuranceData)
	}
	if req.PropertyPhotos != nil {
		out.PropertyPhotos = mergePropertyPhotos(existing.PropertyPhotos, *req.PropertyPhotos)
	}
	if req.Documents != nil {
		out.Documents = mergeDocuments(existing.Documents, *req.Documents)
	}

	out.UpdatedAt = now
	return out
}

func mergePropertyData(base domain.PropertyData, patch domain.PropertyDataPatch) domain.PropertyData {
	out := base
	if patch.PropertyType.Present() {
		out.PropertyType = patch.PropertyType.Or("")
	}
	if patch.Address.Present() {
		out.Address = patch.Address.Or("")
	}
	if patch.City.Present() {
		out.City = patch.City.Or("")
	}
	if patch.Province.Present() {
		out.Province = patch.Province.Or("")
	}
	if patch.PostalCode.Present() {
		out.PostalCode = patch.PostalCode.Or("")
	}
	if patch.BuildingArea.Present() {
		out.BuildingArea = patch.BuildingArea.Or("")
	}
	if patch.LandArea.Present() {
		out.LandArea = patch.LandArea.Or("")
	}
	if patch.NumberOfFloors.Present() {
		out.NumberOfFloors = patch.NumberOfFloors.Or("")
	}
	if patch.YearBuilt.Present() {
		out.YearBuilt = patch.YearBuilt.Or("")
	}
	if patch.PropertyValue.Present() {
		out.PropertyValue = patch.PropertyValue.Or("")
	}
	if patch.BuildingStructure.Present() {
		out.BuildingStructure = patch.BuildingStructure.Or("")
	}
	return out
}

func mergeInsuranceData(base domain.InsuranceData, patch domain.InsuranceDataPatch) domain.InsuranceData {
	out := base
	if patch.PolicyNumber.Present() {
		out.PolicyNumber = patch.PolicyNumber.Or("")
	}
	if patch.InsuranceCompany.Present() {
		out.InsuranceCompany = patch.InsuranceCompany.Or("")
	}
	if patch.CoverageType.Present() {
		out.CoverageType = patch.CoverageType.Or("")
	}
	if patch.InsuranceValue.Present() {
		out.InsuranceValue = patch.InsuranceValue.Or("")
	}
	if patch.Premium.Present() {
		out.Premium = patch.Premium.Or("")
	}
	if patch.StartDate.Present() {
		if start, ok := patch.StartDate.Value(); ok {
			out.StartDate = &start
		} else {
			out.StartDate = nil
		}
	}
	if patch.EndDate.Present() {
		if end, ok := patch.EndDate.Value(); ok {
			out.EndDate = &end
		} else {
			out.EndDate = nil
		}
	}
	if patch.Deductible.Present() {
		out.Deductible = patch.Deductible.Or("")
	}
	return out
}

func mergePropertyPhotos(base domain.PropertyPhotos, patch domain.PropertyPhotosPatch) domain.PropertyPhotos {
	out := base
	if patch.Front.Present() {
		out.Front = patch.Front.Or("")
	}
	if patch.Back.Present() {
		out.Back = patch.Back.Or("")
	}
	if patch.Left.Present() {
		out.Left = patch.Left.Or("")
	}
	if patch.Right.Present() {
		out.Right = patch.Right.Or("")
	}
	if patch.Interior1.Present() {
		out.Interior1 = patch.Interior1.Or("")
	}
	if patch.Interior2.Present() {
		out.Interior2 = patch.Interior2.Or("")
	}
	if patch.Interior3.Present() {
		out.Interior3 = patch.Interior3.Or("")
	}
	if patch.Interior4.Present() {
		out.Interior4 = patch.Interior4.Or("")
	}
	return out
}

func mergeDocuments(base domain.Documents, patch domain.DocumentsPatch) domain.Documents {
	out := base
	if patch.Certificate.Present() {
		out.Certificate = patch.Certificate.Or("")
	}
	if patch.IMB.Present() {
		out.IMB = patch.IMB.Or("")
	}
	if patch.PBB.Present() {
		out.PBB = patch.PBB.Or("")
	}
	if patch.Other.Present() {
		out.Other = patch.Other.Or("")
	}
	return out
}
