package rules

// Default returns the built-in Qatar portfolio rule set. It is the rule data
// shipped with the service; deployments normally override it with a
// rules.yaml maintained alongside the master dataset.
//
// The canonical-name table is ordered: more specific patterns come before
// general ones, and the first match wins. Keep that ordering when editing.
func Default() *Set {
	return &Set{
		OrganizationKeywords: []string{
			"university", "univ", "college", "institute", "institution",
			"foundation", "corporation", "corp", "company", "co",
			"hospital", "medical", "medicine", "clinic", "health",
			"research", "laboratory", "lab", "center", "centre",
			"authority", "ministry", "government", "council",
			"bank", "petroleum", "oil", "gas", "energy",
			"qatar", "qf", "qu", "hbku", "hmc", "sidra",
			"texas a&m", "weill cornell", "carnegie mellon", "northwestern",
			"georgetown", "virginia commonwealth", "north atlantic",
			"iberdrola", "maersk", "exxon", "shell", "total",
			"llc", "ltd", "inc", "plc", "sa", "as", "ag",
			"gmbh", "bv", "nv", "spa", "srl",
		},

		KnownOrganizations: []string{
			"Qatar Foundation for Education, Science and Community Development",
			"Qatar University",
			"Hamad Medical Corporation",
			"Sidra Medicine",
			"Hamad Bin Khalifa University",
			"Texas A&M University at Qatar",
			"Weill Cornell Medicine-Qatar",
			"Carnegie Mellon University in Qatar",
			"Northwestern University in Qatar",
			"Georgetown University in Qatar",
			"Virginia Commonwealth University in Qatar",
			"College of the North Atlantic Qatar",
			"University of Doha for Science and Technology",
			"Qatar Petroleum",
			"Qatar Energy",
			"Qatar National Research Fund",
			"Qatar Computing Research Institute",
			"Qatar Environment and Energy Research Institute",
			"Qatar Biomedical Research Institute",
			"Qatar Biobank",
			"Qatar Genome Programme",
			"Qatar Investment Authority",
			"Qatar Football Association",
			"Qatar Ministry of Education and Higher Education",
			"Maersk Oil Qatar AS",
			"Iberdrola QSTP LLC",
			"Anti-Doping Lab Qatar",
			"Qatar Fertiliser Company",
			"Qatar Airways",
			"Qatar National Bank",
			"Ooredoo",
			"Kahramaa",
			"Ashghal",
			"Qatar Rail",
			"Qatar Museums",
			"Qatar Science and Technology Park",
			"QSTP",
		},

		CanonicalNames: []CanonicalRule{
			// Qatar Foundation is by far the most common applicant, with the
			// widest spread of truncations and typos.
			{Pattern: `qatar\s*found.*education.*science.*community.*dev.*`, Canonical: qfCanonical},
			{Pattern: `qatar\s*found.*education.*science.*community`, Canonical: qfCanonical},
			{Pattern: `qatar\s*found.*science.*education.*community`, Canonical: qfCanonical},
			{Pattern: `qatar\s*found.*science.*education.*social`, Canonical: qfCanonical},
			{Pattern: `qatar\s*found.*for\s*science\s*education`, Canonical: qfCanonical},
			{Pattern: `qatar\s*found.*education.*science.*`, Canonical: qfCanonical},
			{Pattern: `qatar\s*found.*science.*community`, Canonical: qfCanonical},
			{Pattern: `qatar\s*foundation\s*for\s*education`, Canonical: qfCanonical},
			{Pattern: `qatar\s*foundation\s*for\s*ed\.?\s*science`, Canonical: qfCanonical},
			{Pattern: `^qatar\s*foundation\s*,?\s*$`, Canonical: qfCanonical},
			{Pattern: `^qatar\s*found\.?\s*,?\s*$`, Canonical: qfCanonical},
			{Pattern: `^qatar\s*found\s+for\s+`, Canonical: qfCanonical},
			{Pattern: `qatar\s*founation`, Canonical: qfCanonical},   // typo
			{Pattern: `qatar\s*foundatiion`, Canonical: qfCanonical}, // typo
			{Pattern: `qatar\s*foundat?ion`, Canonical: qfCanonical}, // typo
			{Pattern: `qator\s*found`, Canonical: qfCanonical},       // typo
			{Pattern: `qf\s*for\s*education`, Canonical: qfCanonical},
			{Pattern: `^qatar\s+found\s*$`, Canonical: qfCanonical},

			// Ministry of Education and Higher Education
			{Pattern: `qatar\s*mini.*education.*higher`, Canonical: moeheCanonical},
			{Pattern: `qatar\s*ministry.*education.*higher`, Canonical: moeheCanonical},
			{Pattern: `qatar\s*ministry\s*of\s*education`, Canonical: moeheCanonical},
			{Pattern: `qatar\s*mini.*of.*education`, Canonical: moeheCanonical},
			{Pattern: `ministry.*education.*qatar`, Canonical: moeheCanonical},
			{Pattern: `^moe\s*qatar`, Canonical: moeheCanonical},
			{Pattern: `^moehe\s*$`, Canonical: moeheCanonical},

			// Qatar University
			{Pattern: `^univ\.?\s*qatar`, Canonical: "Qatar University"},
			{Pattern: `^qatar\s*university\s*qstp.*`, Canonical: "Qatar University"},
			{Pattern: `^qatar\s*university\s*,?\s*$`, Canonical: "Qatar University"},
			{Pattern: `^qatar\s*univ\.?\s*`, Canonical: "Qatar University"},
			{Pattern: `^quatar\s*univ`, Canonical: "Qatar University"}, // typo
			{Pattern: `qatar\s*university\s*global\s*patent`, Canonical: "Qatar University"},
			{Pattern: `qatar\s*university\s*office`, Canonical: "Qatar University"},
			{Pattern: `qatar\s*university\s*al\s*tarfa`, Canonical: "Qatar University"},
			{Pattern: `^qu\s*qstp`, Canonical: "Qatar University"},

			// Hamad Medical Corporation
			{Pattern: `hamad\s*med.*corp`, Canonical: "Hamad Medical Corporation"},
			{Pattern: `^hamad\s*medical\s*$`, Canonical: "Hamad Medical Corporation"},
			{Pattern: `^hmc\s*$`, Canonical: "Hamad Medical Corporation"},

			// Sidra Medicine
			{Pattern: `^sidra\s*med.*`, Canonical: "Sidra Medicine"},
			{Pattern: `^sidra\s*research`, Canonical: "Sidra Medicine"},

			// Hamad Bin Khalifa University
			{Pattern: `hamad\s*bin\s*khalifa\s*univ.*`, Canonical: "Hamad Bin Khalifa University"},
			{Pattern: `^hbku\s*$`, Canonical: "Hamad Bin Khalifa University"},

			// Qatar Football Association
			{Pattern: `qatar\s*football\s*ass.*`, Canonical: "Qatar Football Association"},
			{Pattern: `^qfa\s*$`, Canonical: "Qatar Football Association"},

			// Maersk Oil Qatar
			{Pattern: `maersk\s*oil\s*qatar.*`, Canonical: "Maersk Oil Qatar AS"},
			{Pattern: `^maersk\s*qatar`, Canonical: "Maersk Oil Qatar AS"},

			// College of the North Atlantic Qatar
			{Pattern: `college.*north\s*atlantic.*qatar`, Canonical: "College of the North Atlantic Qatar"},
			{Pattern: `^cna\s*qatar`, Canonical: "College of the North Atlantic Qatar"},
			{Pattern: `^cna-q`, Canonical: "College of the North Atlantic Qatar"},

			// Education City branch campuses
			{Pattern: `texas\s*a\s*&?\s*m\s*univ.*`, Canonical: "Texas A&M University at Qatar"},
			{Pattern: `^tamu\s*qatar`, Canonical: "Texas A&M University at Qatar"},
			{Pattern: `^tamuq`, Canonical: "Texas A&M University at Qatar"},
			{Pattern: `weill\s*cornell.*`, Canonical: "Weill Cornell Medicine-Qatar"},
			{Pattern: `^wcm-?q`, Canonical: "Weill Cornell Medicine-Qatar"},
			{Pattern: `northwestern.*qatar`, Canonical: "Northwestern University in Qatar"},
			{Pattern: `^nu-?q`, Canonical: "Northwestern University in Qatar"},
			{Pattern: `carnegie\s*mellon.*`, Canonical: "Carnegie Mellon University in Qatar"},
			{Pattern: `^cmu-?q`, Canonical: "Carnegie Mellon University in Qatar"},
			{Pattern: `georgetown.*qatar`, Canonical: "Georgetown University in Qatar"},
			{Pattern: `^gu-?q`, Canonical: "Georgetown University in Qatar"},
			{Pattern: `virginia\s*commonwealth.*qatar`, Canonical: "Virginia Commonwealth University in Qatar"},
			{Pattern: `^vcu-?q`, Canonical: "Virginia Commonwealth University in Qatar"},
			{Pattern: `university\s*of\s*doha`, Canonical: "University of Doha for Science and Technology"},
			{Pattern: `^udst`, Canonical: "University of Doha for Science and Technology"},

			// Other Qatar organizations
			{Pattern: `qatar\s*fertiliser`, Canonical: "Qatar Fertiliser Company"},
			{Pattern: `anti.*doping.*qatar`, Canonical: "Anti-Doping Lab Qatar"},
			{Pattern: `qatar\s*invest.*authority`, Canonical: "Qatar Investment Authority"},
			{Pattern: `^qia\s*$`, Canonical: "Qatar Investment Authority"},
			{Pattern: `qatar\s*petroleum`, Canonical: "Qatar Petroleum"},
			{Pattern: `^qp\s*$`, Canonical: "Qatar Petroleum"},
			{Pattern: `qatar\s*energy`, Canonical: "Qatar Energy"},
			{Pattern: `qatar\s*national\s*research\s*fund`, Canonical: "Qatar National Research Fund"},
			{Pattern: `^qnrf\s*$`, Canonical: "Qatar National Research Fund"},
			{Pattern: `qatar\s*biobank`, Canonical: "Qatar Biobank"},
			{Pattern: `qatar\s*genome`, Canonical: "Qatar Genome Programme"},
			{Pattern: `qatar\s*computing\s*research`, Canonical: "Qatar Computing Research Institute"},
			{Pattern: `^qcri\s*$`, Canonical: "Qatar Computing Research Institute"},
			{Pattern: `qatar\s*environment.*energy`, Canonical: "Qatar Environment and Energy Research Institute"},
			{Pattern: `^qeeri\s*$`, Canonical: "Qatar Environment and Energy Research Institute"},
			{Pattern: `qatar\s*biomedical\s*research`, Canonical: "Qatar Biomedical Research Institute"},
			{Pattern: `^qbri\s*$`, Canonical: "Qatar Biomedical Research Institute"},
			{Pattern: `iberdrola\s*qstp`, Canonical: "Iberdrola QSTP LLC"},
		},

		DiscardPatterns: []string{
			`^science\s*(and|&)?\s*community.*$`,
			`^education\s*(and|&)?\s*science.*$`,
			`^community\s*development.*$`,
			`^social\s*development.*$`,
			`^higher\s*education.*$`,
			`^(and|&)\s+\w+.*$`,
			`^for\s+\w+.*$`,
		},

		ForeignSuffixes: []string{
			" pty ltd", " pty. ltd", // Australian
			" gmbh", " ag", // German/Swiss
			" b.v.", " bv", // Dutch
			" a.s.",        // Norwegian/Danish
			" s.a.",        // French/Spanish
			" spa", " srl", // Italian
		},

		ForeignCompanies: []string{
			// Auto manufacturers
			"toyota", "honda", "hyundai", "ford", "general motors", "gm ",
			"volkswagen", "bmw", "mercedes", "nissan", "mazda", "subaru",
			// Tech companies
			"samsung", "sony", "lg electronics", "panasonic", "philips",
			"microsoft", "google", "apple", "amazon", "meta", "intel", "ibm",
			"huawei", "xiaomi", "lenovo", "dell", "hp ",
			// Aerospace / industrial
			"boeing", "airbus", "siemens", "honeywell", "ge ", "general electric",
			"lockheed", "raytheon", "northrop",
			// Oil majors without a local entity
			"exxon", "chevron", "bp ", "total ", "conocophillips",
			// Pharma
			"pfizer", "novartis", "roche", "merck", "johnson & johnson", "j&j",
			"glaxo", "astrazeneca", "sanofi", "bayer",
			// Universities whose main campus files separately
			"purdue", "mit ", "stanford", "harvard", "oxford", "cambridge",
			"yale", "princeton", "berkeley", "caltech", "ucla", "eth zurich",
		},

		TargetIdentifiers: []string{
			"qatar", "qatari", "doha",
			"hbku", "hmc", "sidra", "hamad bin khalifa",
			"aspire zone", "kahramaa", "ashghal", "ooredoo",
			"qstp", "qnrf", "qcri", "qeeri", "qbri",
		},

		DualCampusNames: []string{
			"texas a&m", "weill cornell", "carnegie mellon",
			"northwestern", "georgetown", "virginia commonwealth",
			"college of the north atlantic", "north atlantic",
		},

		TargetCountryCode: "QA",
		CountryName:       "qatar",
		CapitalName:       "doha",
	}
}

const (
	qfCanonical    = "Qatar Foundation for Education, Science and Community Development"
	moeheCanonical = "Qatar Ministry of Education and Higher Education"
)
