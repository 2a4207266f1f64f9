package converter

import (
	"github.com/Methdul/fitgym-pro-sub000/internal/domain/models"
	storageModel "github.com/Methdul/fitgym-pro-sub000/internal/storage/model"
)

func ToMemberFromStorage(storageMember storageModel.Member) models.Member {
	return models.Member{
		ID:         storageMember.ID,
		BranchID:   storageMember.BranchID,
		NationalID: storageMember.NationalID,
		FirstName:  storageMember.FirstName,
		LastName:   storageMember.LastName,
		Email:      storageMember.Email,
		Phone:      storageMember.Phone,
		PackageID:  storageMember.PackageID,
		ExpiresAt:  storageMember.ExpiresAt,
		CreatedAt:  storageMember.CreatedAt,
	}
}

func ToMembersFromStorage(storageMembers []storageModel.Member) []models.Member {
	members := make([]models.Member, len(storageMembers))
	for i, member := range storageMembers {
		members[i] = ToMemberFromStorage(member)
	}

	return members
}

func ToPackageFromStorage(storagePackage storageModel.Package) models.Package {
	return models.Package{
		ID:             storagePackage.ID,
		BranchID:       storagePackage.BranchID,
		Name:           storagePackage.Name,
		DurationMonths: storagePackage.DurationMonths,
		Price:          storagePackage.Price,
		MaxMembers:     storagePackage.MaxMembers,
	}
}

func ToPackagesFromStorage(storagePackages []storageModel.Package) []models.Package {
	packages := make([]models.Package, len(storagePackages))
	for i, pkg := range storagePackages {
		packages[i] = ToPackageFromStorage(pkg)
	}

	return packages
}

func ToRenewalFromStorage(storageRenewal storageModel.Renewal) models.Renewal {
	return models.Renewal{
		ID:         storageRenewal.ID,
		MemberID:   storageRenewal.MemberID,
		PackageID:  storageRenewal.PackageID,
		PaidAmount: storageRenewal.PaidAmount,
		NewExpiry:  storageRenewal.NewExpiry,
		RenewedAt:  storageRenewal.RenewedAt,
	}
}
