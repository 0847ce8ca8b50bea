package models

// DefaultSettings returns the store configuration a fresh install ships
// with: 09:00-20:00 business hours, overlapping six-hour shift windows,
// and a weekly minimum-staffing table that peaks toward the weekend.
func DefaultSettings() StoreSettings {
	return StoreSettings{
		OpenTime:  "09:00",
		CloseTime: "20:00",
		Shifts: ShiftWindows{
			Morning: TimeRange{Start: "09:00", End: "15:00"},
			Evening: TimeRange{Start: "14:00", End: "20:00"},
		},
		MinStaff: []DayRequirement{
			{Morning: 2, Evening: 2}, // Monday
			{Morning: 2, Evening: 2}, // Tuesday
			{Morning: 2, Evening: 3}, // Wednesday
			{Morning: 2, Evening: 3}, // Thursday
			{Morning: 3, Evening: 3}, // Friday
			{Morning: 3, Evening: 3}, // Saturday
			{Morning: 2, Evening: 2}, // Sunday
		},
	}
}

// SeedStaff returns the roster a fresh install ships with.
func SeedStaff() []Staff {
	return []Staff{
		{ID: "1", Name: "Taro Tanaka", Role: RoleStylist},
		{ID: "2", Name: "Hanako Sato", Role: RoleAssistant},
		{ID: "3", Name: "Ichiro Suzuki", Role: RoleStylist},
		{ID: "4", Name: "Misaki Yamada", Role: RoleNailist},
		{ID: "5", Name: "Mari Takahashi", Role: RoleStylist},
		{ID: "6", Name: "Kenta Ito", Role: RoleAssistant},
		{ID: "7", Name: "Sakura Watanabe", Role: RoleReceptionist},
		{ID: "8", Name: "Yuko Kobayashi", Role: RoleStylist},
		{ID: "9", Name: "Daisuke Kato", Role: RoleAssistant},
		{ID: "10", Name: "Manami Kimura", Role: RoleNailist},
	}
}
