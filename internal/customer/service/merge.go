package service

import (
	"github.com/brokerbase/polisdesk/internal/customer/domain"
)

// applyUpdate merges a partial update onto an existing record. Scalars
// present in the payload win outright; sub-objects merge one level deep,
// keeping every sub-field the payload does not mention. UpdatedAt is
// refreshed unconditionally as the final step.
//
// Status must already be validated; null clears it back to unset.
func applyUpdate(existing domain.Customer, req domain.UpdateRequest, now int64) domain.Customer {
	out := existing

	if req.Name.Present() {
		out.Name = req.Name.Or("")
	}
	if req.Email.Present() {
		out.Email = req.Email.Or("")
	}
	if req.Phone.Present() {
		out.Phone = req.Phone.Or("")
	}
	if req.Address.Present() {
		out.Address = req.Address.Or("")
	}
	if req.Notes.Present() {
		out.Notes = req.Notes.Or("")
	}
	if req.Status.Present() {
		out.Status = domain.Status(req.Status.Or(""))
	}

	if req.CarData != nil {
		out.CarData = mergeCarData(existing.CarData, *req.CarData)
	}
	if req.DocumentStatus != nil {
		out.DocumentStatus = mergeDocumentStatus(existing.DocumentStatus, *req.DocumentStatus)
	}
	if req.CarPhotos != nil {
		out.CarPhotos = mergeCarPhotos(existing.CarPhotos, *req.CarPhotos)
	}
	if req.DocumentPhotos != nil {
		out.DocumentPhotos = mergeDocumentPhotos(existing.DocumentPhotos, *req.DocumentPhotos)
	}

	out.UpdatedAt = now
	return out
}

func mergeCarData(base domain.CarData, patch domain.CarDataPatch) domain.CarData {
	out := base
	if patch.OwnerName.Present() {
		out.OwnerName = patch.OwnerName.Or("")
	}
	if patch.CarBrand.Present() {
		out.CarBrand = patch.CarBrand.Or("")
	}
	if patch.CarModel.Present() {
		out.CarModel = patch.CarModel.Or("")
	}
	if patch.PlateNumber.Present() {
		out.PlateNumber = patch.PlateNumber.Or("")
	}
	if patch.ChassisNumber.Present() {
		out.ChassisNumber = patch.ChassisNumber.Or("")
	}
	if patch.EngineNumber.Present() {
		out.EngineNumber = patch.EngineNumber.Or("")
	}
	if patch.DueDate.Present() {
		if due, ok := patch.DueDate.Value(); ok {
			out.DueDate = &due
		} else {
			out.DueDate = nil
		}
	}
	if patch.CarPrice.Present() {
		out.CarPrice = patch.CarPrice.Or(0)
	}
	return out
}

func mergeDocumentStatus(base domain.DocumentStatus, patch domain.DocumentStatusPatch) domain.DocumentStatus {
	out := base
	if patch.HasSTNK.Present() {
		out.HasSTNK = patch.HasSTNK.Or(false)
	}
	if patch.HasSIM.Present() {
		out.HasSIM = patch.HasSIM.Or(false)
	}
	if patch.HasKTP.Present() {
		out.HasKTP = patch.HasKTP.Or(false)
	}
	return out
}

func mergeCarPhotos(base domain.CarPhotos, patch domain.CarPhotosPatch) domain.CarPhotos {
	out := base
	if patch.LeftSide.Present() {
		out.LeftSide = patch.LeftSide.Or("")
	}
	if patch.RightSide.Present() {
		out.RightSide = patch.RightSide.Or("")
	}
	if patch.Front.Present() {
		out.Front = patch.Front.Or("")
	}
	if patch.Back.Present() {
		out.Back = patch.Back.Or("")
	}
	return out
}

func mergeDocumentPhotos(base domain.DocumentPhotos, patch domain.DocumentPhotosPatch) domain.DocumentPhotos {
	out := base
	if patch.STNK.Present() {
		out.STNK = patch.STNK.Or("")
	}
	if patch.SIM.Present() {
		out.SIM = patch.SIM.Or("")
	}
	if patch.KTP.Present() {
		out.KTP = patch.KTP.Or("")
	}
	return out
}
