package converter

import (
	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	storageModel "github.com/Methdul/fitgym-pro-sub000/internal/storage/model"
)

func ToStaffFromStorage(storageStaff storageModel.Staff) models.Staff {
	return models.Staff{
		ID:         storageStaff.ID,
		BranchID:   storageStaff.BranchID,
		FirstName:  storageStaff.FirstName,
		LastName:   storageStaff.LastName,
		Email:      storageStaff.Email,
		Role:       models.StaffRole(storageStaff.Role),
		PinHash:    storageStaff.PinHash,
		LastActive: storageStaff.LastActive,
	}
}
