package user

type Permission string

const (
	// Attendance
	PermissionAttendanceView    Permission = "attendance.view"
	PermissionAttendanceEdit    Permission = "attendance.edit"
	PermissionAttendanceSummary Permission = "attendance.summary"
	PermissionAttendanceExport  Permission = "attendance.export"

	// Workers
	PermissionWorkerView   Permission = "worker.view"
	PermissionWorkerManage Permission = "worker.manage"
	PermissionWorkerDelete Permission = "worker.delete"

	// Sites
	PermissionSiteView   Permission = "site.view"
	PermissionSiteManage Permission = "site.manage"

	// Company
	PermissionCompanyView   Permission = "company.view"
	PermissionCompanyManage Permission = "company.manage"

	PermissionDashboardView Permission = "dashboard.view"

	// Engineer sign-off
	PermissionReviewSubmit Permission = "review.submit"
	PermissionReviewManage Permission = "review.manage"

	PermissionUserManage Permission = "user.manage"
)

// RolePermissions maps roles to their permissions.
// Cell-level attendance edits are further restricted by attendance.CanEdit.
var RolePermissions = map[Role][]Permission{
	RoleHR: {
		PermissionAttendanceView,
		PermissionAttendanceEdit,
		PermissionAttendanceSummary,
		PermissionAttendanceExport,
		PermissionWorkerView,
		PermissionWorkerManage,
		PermissionWorkerDelete,
		PermissionSiteView,
		PermissionSiteManage,
		PermissionCompanyView,
		PermissionCompanyManage,
		PermissionDashboardView,
		PermissionReviewManage,
		PermissionUserManage,
	},
	RoleAccountant: {
		PermissionAttendanceView,
		PermissionAttendanceEdit,
		PermissionAttendanceSummary,
		PermissionAttendanceExport,
		PermissionWorkerView,
		PermissionWorkerManage,
		PermissionSiteView,
		PermissionCompanyView,
		PermissionDashboardView,
	},
	RoleForeman: {
		PermissionAttendanceView,
		PermissionAttendanceEdit,
		PermissionWorkerView,
		PermissionSiteView,
		PermissionCompanyView,
	},
	RoleEngineer: {
		// Engineers read the grid and sign it off
		PermissionAttendanceView,
		PermissionWorkerView,
		PermissionSiteView,
		PermissionCompanyView,
		PermissionReviewSubmit,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
