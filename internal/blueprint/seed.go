package blueprint

// SeedBlueprints returns the built-in RFQ blueprints shipped per category.
// They double as fixtures for the registry's seed command.
func SeedBlueprints() []Blueprint {
	return []Blueprint{seedHRPayroll(), seedAccountingSoftware()}
}

func seedHRPayroll() Blueprint {
	return Blueprint{
		FormID:   "rfq-hr-payroll-v1",
		Title:    "HR & Payroll Software RFQ",
		Category: "hr-payroll",
		Sections: []Section{
			{
				SectionID: "company-profile",
				Title:     "Company Profile",
				Components: []Component{
					{Kind: KindInstructionalText, Text: &InstructionalText{
						Content: "Tell vendors about your organization so proposals can be sized correctly.",
					}},
					{Kind: KindKeyValueTable, Table: &KeyValueTable{Rows: []KeyValueRow{
						{Label: "company_name", InputType: InputText},
						{Label: "contact_email", InputType: InputEmail},
						{Label: "employee_count", InputType: InputNumber},
						{Label: "target_go_live", InputType: InputDate},
					}}},
				},
			},
			{
				SectionID: "requirements",
				Title:     "Functional Requirements",
				Components: []Component{
					{Kind: KindQuestionList, Question: &QuestionList{Questions: []Question{
						{
							ID:           "payroll_frequency",
							QuestionText: "How often do you run payroll?",
							InputType:    InputSingleChoice,
							Options:      []string{"Weekly", "Bi-weekly", "Semi-monthly", "Monthly"},
						},
						{
							ID:           "modules_needed",
							QuestionText: "Which modules do you need?",
							HelpText:     "Select everything in scope for this purchase.",
							InputType:    InputMultiChoice,
							Options:      []string{"Payroll", "Benefits", "Time Tracking", "Recruiting", "Performance"},
						},
						{
							ID:           "integrations",
							QuestionText: "Which systems must integrate, and how many seats each?",
							InputType:    InputQuantityChoice,
							Options:      []string{"QuickBooks", "NetSuite", "Workday", "Custom ERP"},
						},
						{
							ID:           "current_pain",
							QuestionText: "What problems are you trying to solve with a new system?",
							InputType:    InputText,
							SmartPrompts: []SmartPrompt{
								{Label: "Common pain points", Prompt: "List common HR/payroll pain points for a company of this size."},
							},
						},
					}}},
				},
			},
		},
	}
}

func seedAccountingSoftware() Blueprint {
	return Blueprint{
		FormID:   "rfq-accounting-v1",
		Title:    "Accounting Software RFQ",
		Category: "accounting",
		Sections: []Section{
			{
				SectionID: "basics",
				Title:     "Basics",
				Components: []Component{
					{Kind: KindKeyValueTable, Table: &KeyValueTable{Rows: []KeyValueRow{
						{Label: "company_name", InputType: InputText},
						{Label: "finance_contact", InputType: InputEmail},
						{Label: "annual_revenue", InputType: InputNumber},
					}}},
				},
			},
			{
				SectionID: "scope",
				Title:     "Scope",
				Components: []Component{
					{Kind: KindInstructionalText, Text: &InstructionalText{
						Content: "Describe the accounting workload the system must cover.",
					}},
					{Kind: KindQuestionList, Question: &QuestionList{Questions: []Question{
						{
							ID:           "entity_count",
							QuestionText: "How many legal entities will you manage?",
							InputType:    InputText,
						},
						{
							ID:           "reporting_standard",
							QuestionText: "Which reporting standard applies?",
							InputType:    InputSingleChoice,
							Options:      []string{"GAAP", "IFRS", "Both"},
						},
						{
							ID:           "must_haves",
							QuestionText: "Which capabilities are must-haves?",
							InputType:    InputMultiChoice,
							Options:      []string{"Multi-currency", "Consolidation", "AP Automation", "Revenue Recognition"},
							SmartPrompts: []SmartPrompt{
								{Label: "Suggest capabilities", Prompt: "Suggest accounting capabilities commonly required at this revenue level."},
							},
						},
					}}},
				},
			},
		},
	}
}
