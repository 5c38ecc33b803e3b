package sic

// Keywords are stored lowercase; Search compares case-insensitively.
var mappings = []Mapping{
	// Software and technology
	{Code: "62010", Description: "Computer programming activities", Keywords: []string{"software", "programming", "coding", "developer", "app", "application"}},
	{Code: "62020", Description: "Computer consultancy activities", Keywords: []string{"software", "consulting", "it consulting", "technology consulting"}},
	{Code: "62090", Description: "Other information technology and computer service activities", Keywords: []string{"it", "technology", "tech support", "it services"}},
	{Code: "63110", Description: "Data processing, hosting and related activities", Keywords: []string{"data", "hosting", "cloud", "server", "data center"}},
	{Code: "63120", Description: "Web portals", Keywords: []string{"web", "portal", "website", "online platform"}},

	// Finance and banking
	{Code: "64110", Description: "Central banking", Keywords: []string{"bank", "banking", "central bank"}},
	{Code: "64191", Description: "Banks", Keywords: []string{"bank", "banking", "commercial bank"}},
	{Code: "64205", Description: "Activities of financial services holding companies", Keywords: []string{"finance", "financial", "holding", "investment"}},
	{Code: "64209", Description: "Other activities of holding companies", Keywords: []string{"holding", "investment", "parent company"}},
	{Code: "64301", Description: "Activities of investment trusts", Keywords: []string{"investment", "trust", "fund"}},
	{Code: "64302", Description: "Activities of unit trusts", Keywords: []string{"investment", "unit trust", "fund"}},
	{Code: "64303", Description: "Activities of venture and development capital companies", Keywords: []string{"venture", "vc", "venture capital", "startup funding"}},
	{Code: "64910", Description: "Financial leasing", Keywords: []string{"leasing", "finance lease", "asset finance"}},
	{Code: "64921", Description: "Credit granting by non-deposit taking finance houses", Keywords: []string{"credit", "loan", "lending", "finance"}},
	{Code: "64922", Description: "Activities of mortgage finance companies", Keywords: []string{"mortgage", "home loan", "property finance"}},
	{Code: "64929", Description: "Other credit granting", Keywords: []string{"credit", "loan", "lending"}},
	{Code: "64991", Description: "Security dealing on own account", Keywords: []string{"trading", "securities", "stocks", "bonds"}},
	{Code: "64992", Description: "Factoring", Keywords: []string{"factoring", "invoice finance", "receivables"}},
	{Code: "64999", Description: "Other financial service activities", Keywords: []string{"financial services", "fintech", "payment"}},

	// Insurance
	{Code: "65110", Description: "Life insurance", Keywords: []string{"insurance", "life insurance", "life cover"}},
	{Code: "65120", Description: "Non-life insurance", Keywords: []string{"insurance", "general insurance", "property insurance"}},
	{Code: "65201", Description: "Life reinsurance", Keywords: []string{"reinsurance", "life reinsurance"}},
	{Code: "65202", Description: "Non-life reinsurance", Keywords: []string{"reinsurance", "general reinsurance"}},

	// Real estate
	{Code: "68100", Description: "Buying and selling of own real estate", Keywords: []string{"real estate", "property", "property development"}},
	{Code: "68201", Description: "Renting and operating of Housing Association real estate", Keywords: []string{"housing", "rental", "housing association"}},
	{Code: "68202", Description: "Letting and operating of conference and exhibition centres", Keywords: []string{"conference", "exhibition", "venue"}},
	{Code: "68209", Description: "Other letting and operating of own or leased real estate", Keywords: []string{"property", "rental", "landlord", "letting"}},
	{Code: "68310", Description: "Real estate agencies", Keywords: []string{"estate agent", "property agent", "real estate agency"}},
	{Code: "68320", Description: "Management of real estate on a fee or contract basis", Keywords: []string{"property management", "estate management"}},

	// Retail and e-commerce
	{Code: "47110", Description: "Retail sale in non-specialised stores with food, beverages or tobacco predominating", Keywords: []string{"retail", "shop", "store", "supermarket", "grocery"}},
	{Code: "47910", Description: "Retail sale via mail order houses or via Internet", Keywords: []string{"ecommerce", "e-commerce", "online retail", "online shop", "mail order"}},
	{Code: "47990", Description: "Other retail sale not in stores, stalls or markets", Keywords: []string{"retail", "direct sales", "home shopping"}},

	// Manufacturing
	{Code: "10110", Description: "Processing and preserving of meat", Keywords: []string{"manufacturing", "meat", "food processing"}},
	{Code: "10200", Description: "Processing and preserving of fish, crustaceans and molluscs", Keywords: []string{"manufacturing", "fish", "seafood", "food processing"}},
	{Code: "10710", Description: "Manufacture of bread; manufacture of fresh pastry goods and cakes", Keywords: []string{"bakery", "bread", "manufacturing", "food"}},
	{Code: "26200", Description: "Manufacture of computers and peripheral equipment", Keywords: []string{"manufacturing", "computer", "hardware", "electronics"}},
	{Code: "26400", Description: "Manufacture of consumer electronics", Keywords: []string{"manufacturing", "electronics", "consumer electronics"}},

	// Professional services
	{Code: "69101", Description: "Barristers at law", Keywords: []string{"legal", "law", "barrister", "lawyer"}},
	{Code: "69102", Description: "Solicitors", Keywords: []string{"legal", "law", "solicitor", "lawyer"}},
	{Code: "69109", Description: "Activities of patent and copyright agents; other legal activities", Keywords: []string{"legal", "patent", "copyright", "intellectual property"}},
	{Code: "69201", Description: "Accounting and auditing activities", Keywords: []string{"accounting", "accountant", "audit", "auditing"}},
	{Code: "69202", Description: "Bookkeeping activities", Keywords: []string{"bookkeeping", "accounting", "financial records"}},
	{Code: "69203", Description: "Tax consultancy", Keywords: []string{"tax", "taxation", "tax consultant", "tax advisor"}},
	{Code: "70100", Description: "Activities of head offices", Keywords: []string{"management", "head office", "corporate", "headquarters"}},
	{Code: "70210", Description: "Public relations and communication activities", Keywords: []string{"pr", "public relations", "communications", "media relations"}},
	{Code: "70221", Description: "Financial management", Keywords: []string{"financial management", "cfo services", "finance director"}},
	{Code: "70229", Description: "Management consultancy activities other than financial management", Keywords: []string{"consulting", "consultancy", "management consulting", "business consulting"}},

	// Marketing and advertising
	{Code: "73110", Description: "Advertising agencies", Keywords: []string{"advertising", "marketing", "ad agency", "creative agency"}},
	{Code: "73120", Description: "Media representation", Keywords: []string{"media", "advertising sales", "media planning"}},
	{Code: "73200", Description: "Market research and public opinion polling", Keywords: []string{"market research", "research", "polling", "survey"}},

	// Healthcare
	{Code: "86101", Description: "Hospital activities", Keywords: []string{"hospital", "healthcare", "medical", "health"}},
	{Code: "86102", Description: "Medical nursing home activities", Keywords: []string{"nursing home", "care home", "healthcare"}},
	{Code: "86210", Description: "General medical practice activities", Keywords: []string{"gp", "doctor", "medical practice", "healthcare"}},
	{Code: "86220", Description: "Specialist medical practice activities", Keywords: []string{"specialist", "medical", "healthcare", "consultant"}},
	{Code: "86230", Description: "Dental practice activities", Keywords: []string{"dental", "dentist", "dentistry", "oral health"}},

	// Education
	{Code: "85100", Description: "Pre-primary education", Keywords: []string{"nursery", "pre-school", "early years", "education"}},
	{Code: "85200", Description: "Primary education", Keywords: []string{"primary school", "elementary", "education"}},
	{Code: "85310", Description: "General secondary education", Keywords: []string{"secondary school", "high school", "education"}},
	{Code: "85320", Description: "Technical and vocational secondary education", Keywords: []string{"vocational", "technical education", "training"}},
	{Code: "85410", Description: "Post-secondary non-tertiary education", Keywords: []string{"further education", "college", "education"}},
	{Code: "85421", Description: "First-degree level higher education", Keywords: []string{"university", "degree", "higher education"}},
	{Code: "85422", Description: "Post-graduate level higher education", Keywords: []string{"postgraduate", "masters", "phd", "higher education"}},
	{Code: "85590", Description: "Other education", Keywords: []string{"training", "courses", "education", "tutoring"}},

	// Construction
	{Code: "41100", Description: "Development of building projects", Keywords: []string{"construction", "property development", "building", "developer"}},
	{Code: "41201", Description: "Construction of commercial buildings", Keywords: []string{"construction", "commercial building", "contractor"}},
	{Code: "41202", Description: "Construction of domestic buildings", Keywords: []string{"construction", "house building", "residential", "contractor"}},
	{Code: "43210", Description: "Electrical installation", Keywords: []string{"electrical", "electrician", "wiring", "installation"}},
	{Code: "43220", Description: "Plumbing, heat and air-conditioning installation", Keywords: []string{"plumbing", "plumber", "heating", "hvac"}},

	// Transportation and logistics
	{Code: "49100", Description: "Passenger rail transport, interurban", Keywords: []string{"rail", "train", "railway", "transport"}},
	{Code: "49200", Description: "Freight rail transport", Keywords: []string{"freight", "rail freight", "cargo", "transport"}},
	{Code: "49310", Description: "Urban and suburban passenger land transport", Keywords: []string{"bus", "public transport", "metro", "transport"}},
	{Code: "49320", Description: "Taxi operation", Keywords: []string{"taxi", "cab", "private hire", "transport"}},
	{Code: "49410", Description: "Freight transport by road", Keywords: []string{"trucking", "haulage", "logistics", "transport"}},
	{Code: "49420", Description: "Removal services", Keywords: []string{"removal", "moving", "relocation", "transport"}},
	{Code: "52100", Description: "Warehousing and storage", Keywords: []string{"warehouse", "storage", "logistics", "distribution"}},
	{Code: "53100", Description: "Postal activities under universal service obligation", Keywords: []string{"postal", "mail", "post office", "delivery"}},
	{Code: "53201", Description: "Licensed carriers", Keywords: []string{"courier", "parcel", "delivery", "logistics"}},
	{Code: "53202", Description: "Unlicensed carriers", Keywords: []string{"courier", "delivery", "last mile", "logistics"}},
}
