package rules

import "proposal-engine/internal/models"

func days(n int) *int { return &n }

func item(id, label, description string, required bool, kind models.ActionKind, effort string, deps ...string) models.ChecklistItem {
	return models.ChecklistItem{
		ID:              id,
		Label:           label,
		Description:     description,
		Required:        required,
		Dependencies:    deps,
		ActionKind:      kind,
		EstimatedEffort: effort,
	}
}

// Default returns the compiled-in catalog. Each call returns an independent copy.
func Default() *Catalog {
	c := &Catalog{
		Sections:   defaultSections(),
		Artifacts:  defaultArtifacts(),
		Candidates: defaultCandidates(),
	}
	c.index()
	return c
}

func defaultSections() map[string]SectionTemplate {
	return map[string]SectionTemplate{
		"overview": {
			Title: "Opportunity Overview",
			Items: []models.ChecklistItem{
				item("review-rfp", "Review RFP document", "Read the solicitation end to end and note evaluation criteria.", true, models.ActionReview, "1-2 hours"),
				item("confirm-eligibility", "Confirm eligibility", "Check set-aside status, NAICS code and size standard.", true, models.ActionVerify, "30 min", "review-rfp"),
				item("record-deadlines", "Record key deadlines", "Questions due date, proposal due date and oral presentation slots.", true, models.ActionManual, "15 min", "review-rfp"),
				item("upload-attachments", "Upload RFP attachments", "Amendments, wage determinations and drawings.", false, models.ActionUpload, "15 min"),
				item("schedule-kickoff", "Schedule team kickoff", "Invite capture, pricing and technical leads.", false, models.ActionManual, "15 min", "confirm-eligibility"),
			},
		},
		"requirements": {
			Title: "Requirements Analysis",
			Items: []models.ChecklistItem{
				item("extract-requirements", "Extract requirements", "Shall and must statements pulled from sections C, L and M.", true, models.ActionAutomatic, "5 min"),
				item("generate-compliance-matrix", "Generate compliance matrix", "Cross-reference every requirement to a response section.", true, models.ActionAutomatic, "5 min", "extract-requirements"),
				item("assign-owners", "Assign requirement owners", "Every matrix row has a named author.", true, models.ActionManual, "1 hour", "generate-compliance-matrix"),
				item("review-ambiguities", "Review ambiguous requirements", "Flag conflicting or unclear language.", false, models.ActionReview, "1 hour", "extract-requirements"),
				item("submit-questions", "Submit clarification questions", "Send questions to the contracting officer before the cutoff.", false, models.ActionSubmit, "30 min", "review-ambiguities"),
			},
		},
		"compliance": {
			Title: "Compliance Documents",
			Items: []models.ChecklistItem{
				item("upload-coi", "Upload certificate of insurance", "Current COI naming the required coverage limits.", true, models.ActionUpload, "10 min"),
				item("upload-w9", "Upload W-9", "Signed W-9 with the legal entity name.", true, models.ActionUpload, "10 min"),
				item("verify-sam", "Verify SAM registration", "Active registration and UEI matching the offeror.", true, models.ActionVerify, "15 min"),
				item("upload-certifications", "Upload small business certifications", "8(a), HUBZone, WOSB or SDVOSB letters if claimed.", false, models.ActionUpload, "10 min"),
				item("compliance-review", "Compliance review", "Contracts reviews representations and certifications.", true, models.ActionReview, "1 hour", "upload-coi", "upload-w9", "verify-sam"),
			},
		},
		"technical-approach": {
			Title: "Technical Approach",
			Items: []models.ChecklistItem{
				item("draft-approach", "Draft technical approach", "Methodology, work plan and risk mitigation.", true, models.ActionManual, "2-3 days"),
				item("draft-staffing", "Draft staffing plan", "Key personnel, labor categories and org chart.", true, models.ActionManual, "1 day"),
				item("attach-past-performance", "Attach past performance", "Three references relevant in size and scope.", false, models.ActionUpload, "2 hours"),
				item("technical-review", "Technical review", "Solution architect reviews against the compliance matrix.", true, models.ActionReview, "half day", "draft-approach", "draft-staffing"),
			},
		},
		"pricing": {
			Title: "Pricing",
			Items: []models.ChecklistItem{
				item("build-cost-model", "Build cost model", "Labor, materials, ODCs, overhead and fee.", true, models.ActionManual, "1-2 days"),
				item("collect-sub-quotes", "Collect subcontractor quotes", "Written quotes for every teamed scope.", false, models.ActionUpload, "1 day"),
				item("pricing-review", "Pricing review", "Price-to-win and margin check.", true, models.ActionReview, "2 hours", "build-cost-model"),
				item("finalize-price", "Finalize price volume", "Lock the bid price and complete the pricing schedule.", true, models.ActionVerify, "1 hour", "pricing-review"),
			},
		},
		"subcontractors": {
			Title: "Teaming Partners",
			Items: []models.ChecklistItem{
				item("identify-specialties", "Identify specialty gaps", "Scopes we cannot self-perform.", true, models.ActionManual, "1 hour"),
				item("select-partners", "Select partners", "One selected subcontractor per specialty.", true, models.ActionManual, "half day", "identify-specialties"),
				item("collect-teaming-agreements", "Collect teaming agreements", "Signed TAs or NDAs from each partner.", false, models.ActionUpload, "1 day", "select-partners"),
				item("verify-partner-compliance", "Verify partner compliance", "Insurance, licensing and exclusions check.", true, models.ActionVerify, "1 hour", "select-partners"),
			},
		},
		"review": {
			Title: "Final Review & Submission",
			Items: []models.ChecklistItem{
				item("red-team", "Red team review", "Independent scoring against section M.", true, models.ActionReview, "1 day"),
				item("address-comments", "Address review comments", "Resolve every red team finding.", true, models.ActionManual, "1-2 days", "red-team"),
				item("final-qa", "Final QA", "Page counts, fonts, cross-references and signatures.", true, models.ActionVerify, "2 hours", "address-comments"),
				item("submit-proposal", "Submit proposal", "Upload to the portal and save the confirmation.", true, models.ActionSubmit, "30 min", "final-qa"),
			},
		},
		DefaultSectionID: {
			Title: "General",
			Items: []models.ChecklistItem{
				item("review-section", "Review section", "Read the section guidance.", true, models.ActionReview, "30 min"),
				item("complete-section", "Complete section", "Provide the section content.", true, models.ActionManual, "1 hour", "review-section"),
				item("add-notes", "Add notes", "Capture open questions for the team.", false, models.ActionManual, "10 min"),
			},
		},
	}
}

func defaultArtifacts() []ArtifactRule {
	return []ArtifactRule{
		{Name: "Certificate of Insurance", Tags: []string{"insurance", "coi", "certificate-of-insurance"}, Types: []string{"pdf"}, MaxAgeDays: days(365)},
		{Name: "W-9", Tags: []string{"w9", "w-9", "tax"}, Types: []string{"pdf"}, MaxAgeDays: days(1095)},
		{Name: "Past Performance", Tags: []string{"past-performance", "case-study", "reference"}},
		{Name: "Capability Statement", Tags: []string{"capability", "capability-statement"}, Types: []string{"pdf", "docx"}, MaxAgeDays: days(730)},
		{Name: "SAM Registration", Tags: []string{"sam", "sam-registration", "uei"}, Types: []string{"pdf", "png", "jpg"}, MaxAgeDays: days(365)},
		{Name: "Financial Statements", Tags: []string{"financials", "financial-statement", "audit"}, Types: []string{"pdf", "xlsx"}, MaxAgeDays: days(365)},
		{Name: "Key Personnel Resumes", Tags: []string{"resume", "cv", "key-personnel"}, Types: []string{"pdf", "docx"}},
		{Name: "Small Business Certification", Tags: []string{"8a", "hubzone", "wosb", "sdvosb", "small-business"}, Types: []string{"pdf"}, MaxAgeDays: days(365)},
	}
}

func defaultCandidates() []models.SubcontractorCandidate {
	return []models.SubcontractorCandidate{
		{
			ID: "sub-001", Name: "Volt Line Electrical Services", Type: "electrical",
			Specialty:    []string{"electrical", "low-voltage", "lighting"},
			Rating:       4.8,
			Pricing:      models.Pricing{CompetitiveRank: 1, HourlyRate: 92},
			Availability: models.Availability{ConflictRisk: models.ConflictRiskLow, NextAvailable: "immediate", CurrentLoad: 40},
			PastPerformance: []models.Engagement{
				{Client: "GSA Region 4", Project: "Federal building lighting retrofit", Year: 2024, ContractValue: 1250000, Rating: 4.9},
				{Client: "City of Raleigh", Project: "Transit center electrical upgrade", Year: 2023, ContractValue: 860000, Rating: 4.7},
				{Client: "Duke Health", Project: "Clinic low-voltage build-out", Year: 2022, ContractValue: 430000, Rating: 4.8},
			},
			ComplianceStatus:    models.ComplianceStatus{OverallScore: 96, Certifications: []string{"licensed-master-electrician", "osha-30"}},
			RecommendationScore: 94,
		},
		{
			ID: "sub-002", Name: "Keystone Power Systems", Type: "electrical",
			Specialty:    []string{"electrical", "power distribution", "generators"},
			Rating:       4.5,
			Pricing:      models.Pricing{CompetitiveRank: 2, HourlyRate: 105},
			Availability: models.Availability{ConflictRisk: models.ConflictRiskMedium, NextAvailable: "2 weeks", CurrentLoad: 70},
			PastPerformance: []models.Engagement{
				{Client: "US Army Corps of Engineers", Project: "Backup generator installation", Year: 2024, ContractValue: 2100000, Rating: 4.6},
				{Client: "Wake County Schools", Project: "Switchgear replacement", Year: 2023, ContractValue: 740000, Rating: 4.4},
				{Client: "VA Medical Center", Project: "Emergency power study", Year: 2022, ContractValue: 180000, Rating: 4.5},
				{Client: "NCDOT", Project: "Traffic signal power feeds", Year: 2021, ContractValue: 390000, Rating: 4.3},
			},
			ComplianceStatus:    models.ComplianceStatus{OverallScore: 91, Certifications: []string{"licensed-master-electrician"}},
			RecommendationScore: 88,
		},
		{
			ID: "sub-003", Name: "Arctic Air Mechanical", Type: "hvac",
			Specialty:    []string{"hvac", "mechanical", "building controls"},
			Rating:       4.6,
			Pricing:      models.Pricing{CompetitiveRank: 2, HourlyRate: 98},
			Availability: models.Availability{ConflictRisk: models.ConflictRiskLow, NextAvailable: "1 week", CurrentLoad: 55},
			PastPerformance: []models.Engagement{
				{Client: "GSA Region 4", Project: "Chiller plant replacement", Year: 2024, ContractValue: 3200000, Rating: 4.7},
				{Client: "UNC Chapel Hill", Project: "Lab exhaust retrofit", Year: 2023, ContractValue: 1100000, Rating: 4.6},
				{Client: "Durham County", Project: "BAS integration", Year: 2021, ContractValue: 520000, Rating: 4.5},
			},
			ComplianceStatus:    models.ComplianceStatus{OverallScore: 93, Certifications: []string{"epa-608", "nate"}},
			RecommendationScore: 90,
		},
		{
			ID: "sub-004", Name: "Summit Plumbing & Fire", Type: "plumbing",
			Specialty:    []string{"plumbing", "fire protection", "sprinklers"},
			Rating:       4.2,
			Pricing:      models.Pricing{CompetitiveRank: 1, HourlyRate: 85},
			Availability: models.Availability{ConflictRisk: models.ConflictRiskHigh, NextAvailable: "6 weeks", CurrentLoad: 90},
			PastPerformance: []models.Engagement{
				{Client: "City of Durham", Project: "Fire station sprinkler upgrade", Year: 2023, ContractValue: 610000, Rating: 4.3},
				{Client: "Cary Housing Authority", Project: "Domestic water repiping", Year: 2022, ContractValue: 280000, Rating: 4.0},
			},
			ComplianceStatus:    models.ComplianceStatus{OverallScore: 85, Certifications: []string{"nicet-iii"}},
			RecommendationScore: 81,
		},
		{
			ID: "sub-005", Name: "Cipher Shield Security", Type: "it",
			Specialty:    []string{"cybersecurity", "network security", "it services"},
			Rating:       4.9,
			Pricing:      models.Pricing{CompetitiveRank: 3, HourlyRate: 165},
			Availability: models.Availability{ConflictRisk: models.ConflictRiskLow, NextAvailable: "immediate", CurrentLoad: 35},
			PastPerformance: []models.Engagement{
				{Client: "DISA", Project: "Zero trust pilot", Year: 2025, ContractValue: 4800000, Rating: 5.0},
				{Client: "State of North Carolina DIT", Project: "SOC modernization", Year: 2024, ContractValue: 2300000, Rating: 4.9},
				{Client: "Fort Liberty", Project: "RMF package support", Year: 2023, ContractValue: 950000, Rating: 4.8},
				{Client: "NIH", Project: "Vulnerability management program", Year: 2022, ContractValue: 1400000, Rating: 4.9},
				{Client: "HHS", Project: "Penetration testing IDIQ", Year: 2021, ContractValue: 700000, Rating: 4.8},
			},
			ComplianceStatus:    models.ComplianceStatus{OverallScore: 98, Certifications: []string{"cmmc-level-2", "iso-27001", "fedramp-moderate"}},
			RecommendationScore: 92,
		},
		{
			ID: "sub-006", Name: "Bluepeak Builders", Type: "general-construction",
			Specialty:    []string{"general construction", "site work", "concrete"},
			Rating:       4.1,
			Pricing:      models.Pricing{CompetitiveRank: 2, HourlyRate: 88},
			Availability: models.Availability{ConflictRisk: models.ConflictRiskMedium, NextAvailable: "3 weeks", CurrentLoad: 75},
			PastPerformance: []models.Engagement{
				{Client: "NC State University", Project: "Parking deck expansion", Year: 2025, ContractValue: 6200000, Rating: 4.2},
				{Client: "Town of Apex", Project: "Community center", Year: 2024, ContractValue: 3900000, Rating: 4.0},
				{Client: "GSA Region 4", Project: "Courthouse plaza repairs", Year: 2023, ContractValue: 1200000, Rating: 4.1},
				{Client: "Johnston County", Project: "Water plant site work", Year: 2022, ContractValue: 2500000, Rating: 4.3},
				{Client: "NCDOT", Project: "Maintenance yard slab", Year: 2021, ContractValue: 800000, Rating: 3.9},
				{Client: "Wake Tech", Project: "Classroom building shell", Year: 2020, ContractValue: 5100000, Rating: 4.1},
			},
			ComplianceStatus:    models.ComplianceStatus{OverallScore: 88, Certifications: []string{"unlimited-general-contractor"}},
			RecommendationScore: 84,
		},
		{
			ID: "sub-007", Name: "Greenfield Environmental", Type: "environmental",
			Specialty:    []string{"environmental", "remediation", "asbestos abatement"},
			Rating:       4.4,
			Pricing:      models.Pricing{CompetitiveRank: 3, HourlyRate: 120},
			Availability: models.Availability{ConflictRisk: models.ConflictRiskLow, NextAvailable: "1 week", CurrentLoad: 45},
			PastPerformance: []models.Engagement{
				{Client: "EPA Region 4", Project: "Brownfield assessment", Year: 2024, ContractValue: 670000, Rating: 4.5},
				{Client: "Durham Public Schools", Project: "Asbestos abatement", Year: 2022, ContractValue: 330000, Rating: 4.3},
			},
			ComplianceStatus:    models.ComplianceStatus{OverallScore: 94, Certifications: []string{"ahera", "hazwoper"}},
			RecommendationScore: 79,
		},
		{
			ID: "sub-008", Name: "Northwind Data Systems", Type: "it",
			Specialty:    []string{"it services", "cloud migration", "help desk"},
			Rating:       4.3,
			Pricing:      models.Pricing{CompetitiveRank: 1, HourlyRate: 110},
			Availability: models.Availability{ConflictRisk: models.ConflictRiskMedium, NextAvailable: "2 weeks", CurrentLoad: 60},
			PastPerformance: []models.Engagement{
				{Client: "USDA", Project: "Tier 1 service desk", Year: 2024, ContractValue: 1800000, Rating: 4.4},
				{Client: "City of Greensboro", Project: "M365 migration", Year: 2023, ContractValue: 420000, Rating: 4.2},
				{Client: "Fayetteville PWC", Project: "Data center exit", Year: 2022, ContractValue: 960000, Rating: 4.3},
			},
			ComplianceStatus:    models.ComplianceStatus{OverallScore: 89, Certifications: []string{"iso-20000"}},
			RecommendationScore: 86,
		},
	}
}
