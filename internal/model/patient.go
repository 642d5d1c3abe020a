package model

// Patient carries the demographic record plus the current risk snapshot.
// RiskScore and RiskLevel are written only by the assessment pipeline, and
// always together: the level is the tiering image of the score.
type Patient struct {
	Base
	Name             string   `db:"name" json:"name"`
	Age              int      `db:"age" json:"age"`
	Condition        string   `db:"condition" json:"condition"`
	Appointment      string   `db:"appointment" json:"appointment"`
	Contact          string   `db:"contact" json:"contact"`
	EmergencyContact *string  `db:"emergency_contact" json:"emergency_contact,omitempty"`
	Email            *string  `db:"email" json:"email,omitempty"`
	Address          *string  `db:"address" json:"address,omitempty"`
	WaitTime         *string  `db:"wait_time" json:"wait_time,omitempty"`
	Location         *string  `db:"location" json:"location,omitempty"`
	RiskFactors      *string  `db:"risk_factors" json:"risk_factors,omitempty"`
	Notes            *string  `db:"notes" json:"notes,omitempty"`
	RiskScore        *float64 `db:"risk_score" json:"risk_score,omitempty"`
	RiskLevel        *string  `db:"risk_level" json:"risk_level,omitempty"`

	// Clinical attributes feeding the quick-predict feature mapping.
	SexualPartners *int  `db:"sexual_partners" json:"sexual_partners,omitempty"`
	FirstSexualAge *int  `db:"first_sexual_age" json:"first_sexual_age,omitempty"`
	HPVPositive    *bool `db:"hpv_positive" json:"hpv_positive,omitempty"`
	AbnormalPap    *bool `db:"abnormal_pap" json:"abnormal_pap,omitempty"`
	Smoking        *bool `db:"smoking" json:"smoking,omitempty"`
	STDsHistory    *bool `db:"stds_history" json:"stds_history,omitempty"`
	Insurance      *bool `db:"insurance" json:"insurance,omitempty"`
}

type CreatePatientRequest struct {
	Name             string  `json:"name" binding:"required"`
	Age              int     `json:"age" binding:"required,gte=0"`
	Condition        string  `json:"condition" binding:"required"`
	Appointment      string  `json:"appointment" binding:"required,appointment"`
	Contact          string  `json:"contact" binding:"required"`
	EmergencyContact *string `json:"emergency_contact"`
	Email            *string `json:"email" binding:"omitempty,email"`
	Address          *string `json:"address"`
	WaitTime         *string `json:"wait_time"`
	Location         *string `json:"location"`
	RiskFactors      *string `json:"risk_factors"`
	Notes            *string `json:"notes"`
	SexualPartners   *int    `json:"sexual_partners"`
	FirstSexualAge   *int    `json:"first_sexual_age"`
	HPVPositive      *bool   `json:"hpv_positive"`
	AbnormalPap      *bool   `json:"abnormal_pap"`
	Smoking          *bool   `json:"smoking"`
	STDsHistory      *bool   `json:"stds_history"`
	Insurance        *bool   `json:"insurance"`
}

// UpdatePatientRequest deliberately omits the risk snapshot fields; CRUD
// updates never touch them.
type UpdatePatientRequest struct {
	Name             *string `json:"name"`
	Age              *int    `json:"age" binding:"omitempty,gte=0"`
	Condition        *string `json:"condition"`
	Appointment      *string `json:"appointment" binding:"omitempty,appointment"`
	Contact          *string `json:"contact"`
	EmergencyContact *string `json:"emergency_contact"`
	Email            *string `json:"email" binding:"omitempty,email"`
	Address          *string `json:"address"`
	WaitTime         *string `json:"wait_time"`
	Location         *string `json:"location"`
	RiskFactors      *string `json:"risk_factors"`
	Notes            *string `json:"notes"`
	SexualPartners   *int    `json:"sexual_partners"`
	FirstSexualAge   *int    `json:"first_sexual_age"`
	HPVPositive      *bool   `json:"hpv_positive"`
	AbnormalPap      *bool   `json:"abnormal_pap"`
	Smoking          *bool   `json:"smoking"`
	STDsHistory      *bool   `json:"stds_history"`
	Insurance        *bool   `json:"insurance"`
}
