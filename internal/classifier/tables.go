package classifier

// Intent is a detected query intent tag. Tags map to expected categories
// through the alignment table; a tag without an alignment entry has zero
// disambiguation effect and falls back to plain category-priority ordering.
type Intent string

const (
	IntentLocal           Intent = "local"
	IntentCompare         Intent = "compare"
	IntentCustomerService Intent = "customer_service"
	IntentConnectedDevice Intent = "connected_device"
	IntentInternational   Intent = "international"
	IntentPlan            Intent = "plan"
	IntentStore           Intent = "store"
	IntentRetail          Intent = "retail"
	IntentUnlock          Intent = "unlock"
	IntentSwitch          Intent = "switch"
	IntentCoverage        Intent = "coverage"
	IntentPrice           Intent = "price"
	IntentReview          Intent = "review"
	IntentTradeIn         Intent = "trade_in"
	IntentActivate        Intent = "activate"
	IntentSIM             Intent = "sim"
)

// IntentRule pairs a fallback intent tag with its trigger phrases. Rules
// are scanned in declaration order; the first phrase hit wins.
type IntentRule struct {
	Intent  Intent
	Phrases []string
}

// Alignment maps an intent tag to the category it implies and the priority
// bonus a candidate from that category earns during disambiguation.
type Alignment struct {
	Category string
	Bonus    int
}

// Tables is the immutable lookup configuration the detector and resolver
// run on. Injected at construction so tests can substitute smaller tables
// without touching the matching algorithm.
type Tables struct {
	// Cities drives the local-intent check. Bare "near me" is deliberately
	// not a local trigger: it is ambiguous (stores, coverage, availability);
	// only city names disambiguate reliably.
	Cities []string

	// Carriers and PhoneBrands are the brand-detection lists, scanned by
	// case-insensitive substring match.
	Carriers    []string
	PhoneBrands []string

	// IntentRules is the ordered fallback phrase table (detector step 7).
	IntentRules []IntentRule

	// Alignment maps each intent tag to its expected category and bonus.
	Alignment map[Intent]Alignment

	// StrongIntents may relax the fuzzy threshold when they override an
	// exact hit that landed in the wrong category.
	StrongIntents []Intent

	// CategoryPriority breaks ties between equally scored candidates.
	// Narrow, specific categories outrank broad buckets; never used for
	// score computation.
	CategoryPriority map[string]int
	DefaultPriority  int
}

// DefaultTables returns the production lookup tables.
func DefaultTables() Tables {
	return Tables{
		Cities:           defaultCities(),
		Carriers:         defaultCarriers(),
		PhoneBrands:      defaultPhoneBrands(),
		IntentRules:      defaultIntentRules(),
		Alignment:        defaultAlignment(),
		StrongIntents:    []Intent{IntentLocal, IntentCompare, IntentCustomerService, IntentInternational, IntentConnectedDevice},
		CategoryPriority: defaultCategoryPriority(),
		DefaultPriority:  50,
	}
}

func defaultCities() []string {
	return []string{
		"new york", "los angeles", "chicago", "houston", "phoenix", "philadelphia",
		"san antonio", "san diego", "dallas", "san jose", "austin", "jacksonville",
		"fort worth", "columbus", "charlotte", "san francisco", "indianapolis", "seattle",
		"denver", "washington dc", "boston", "el paso", "detroit", "nashville", "portland",
		"memphis", "oklahoma city", "las vegas", "louisville", "baltimore", "milwaukee",
		"albuquerque", "tucson", "fresno", "mesa", "sacramento", "atlanta", "kansas city",
		"colorado springs", "miami", "raleigh", "omaha", "long beach", "virginia beach",
		"oakland", "minneapolis", "tulsa", "tampa", "arlington", "new orleans",
	}
}

func defaultCarriers() []string {
	return []string{
		// Major carriers
		"verizon", "verizon wireless", "vzw", "at&t", "at and t", "at&t wireless",
		"t-mobile", "tmobile", "t mobile", "sprint", "sprint mobile",
		// Prepaid brands
		"metro by t-mobile", "metro pcs", "metropcs", "cricket", "cricket wireless",
		"boost mobile", "boost infinite", "visible", "visible+", "visible plus",
		"mint mobile", "mint wireless", "us cellular", "uscellular", "us mobile", "usmobile",
		// MVNOs
		"google fi", "fi by google", "project fi", "xfinity mobile", "xfinity wireless",
		"spectrum mobile", "spectrum wireless", "straight talk", "straighttalk",
		"total wireless", "total by verizon", "tracfone", "tracfone wireless", "simple mobile",
		"h2o wireless", "republic wireless", "ting mobile", "consumer cellular",
		"red pocket", "ultra mobile", "ultramobile", "pure talk", "puretalk",
		"tello", "tello mobile", "twigby", "wing mobile", "good2go",
		"net10", "page plus", "lycamobile", "lyca mobile",
		"gen mobile", "black wireless", "reach mobile", "hello mobile",
		"patriot mobile", "freedompop", "textnow", "credo mobile", "airvoice",
		"boom mobile", "easygo wireless", "go smart mobile", "jolt mobile",
		"pix wireless", "rok mobile", "selectel wireless", "speedtalk mobile",
		"telcel america", "truconnect", "truphone", "unreal mobile",
		// Business
		"verizon business", "att business", "at&t business", "t-mobile business",
		"verizon enterprise", "att enterprise", "sprint business",
		// Regional carriers
		"c spire", "cspire", "cellcom", "gci wireless", "bluegrass cellular",
		"carolina west wireless", "cellularone", "inland cellular", "nex-tech wireless",
		"pioneer cellular", "plateau wireless", "silver star", "strata networks",
		"syringa wireless", "thumb cellular", "viaero", "west central wireless",
	}
}

func defaultPhoneBrands() []string {
	return []string{
		// Apple
		"iphone", "apple phone", "iphone se", "iphone pro", "iphone pro max",
		// Samsung
		"samsung", "galaxy", "samsung galaxy", "galaxy s", "galaxy a", "galaxy note",
		"galaxy z flip", "galaxy z fold", "z flip", "z fold", "samsung foldable",
		"galaxy tab", "samsung tablet",
		// Google
		"pixel", "google pixel", "pixel pro", "pixel fold", "pixel watch",
		// Motorola
		"motorola", "moto g", "moto edge", "motorola edge", "motorola razr", "razr",
		"moto razr", "motorola thinkphone",
		// OnePlus
		"oneplus", "oneplus nord", "oneplus open",
		// Xiaomi family
		"xiaomi", "redmi", "redmi note", "poco",
		// Others
		"nothing phone", "tcl phone", "nokia phone", "lg phone", "zte phone",
		"blu phone", "huawei", "honor phone", "oppo", "vivo phone", "realme",
		"asus phone", "rog phone", "sony xperia", "xperia", "blackberry",
		"palm phone", "cat phone", "kyocera", "jitterbug", "lively phone",
	}
}

func defaultIntentRules() []IntentRule {
	return []IntentRule{
		{IntentStore, []string{"store near me", "store hours", "store locations", "nearest store", "phone store", "wireless store"}},
		{IntentRetail, []string{"retail", "in stock", "in store"}},
		{IntentUnlock, []string{"unlock", "unlocked"}},
		{IntentSwitch, []string{"switch from", "switch to", "switching carriers", "port my number", "port number"}},
		{IntentCoverage, []string{"coverage", "signal strength", "reception", "dead zone"}},
		{IntentPrice, []string{"price", "cost", "how much", "cheap", "affordable"}},
		{IntentReview, []string{"review", "rating", "worth it"}},
		{IntentTradeIn, []string{"trade in", "trade-in", "tradein"}},
		{IntentActivate, []string{"activate", "activation"}},
		{IntentSIM, []string{"sim card", "esim", "sim"}},
	}
}

func defaultAlignment() map[Intent]Alignment {
	return map[Intent]Alignment{
		IntentCustomerService: {Category: "Customer Service", Bonus: 70},
		IntentUnlock:          {Category: "Unlocking", Bonus: 65},
		IntentActivate:        {Category: "Activation", Bonus: 65},
		IntentTradeIn:         {Category: "Trade In", Bonus: 60},
		IntentSwitch:          {Category: "Switching", Bonus: 60},
		IntentInternational:   {Category: "International", Bonus: 55},
		IntentConnectedDevice: {Category: "Connected Devices", Bonus: 55},
		IntentCompare:         {Category: "Comparisons", Bonus: 50},
		IntentStore:           {Category: "Retail", Bonus: 45},
		IntentRetail:          {Category: "Retail", Bonus: 45},
		IntentCoverage:        {Category: "Coverage", Bonus: 40},
		IntentLocal:           {Category: "Local", Bonus: 40},
		IntentPrice:           {Category: "Pricing", Bonus: 35},
		IntentReview:          {Category: "Reviews", Bonus: 35},
		IntentPlan:            {Category: "Mobile Plans", Bonus: 30},
		IntentSIM:             {Category: "SIM Cards", Bonus: 30},
	}
}

func defaultCategoryPriority() map[string]int {
	return map[string]int{
		"Customer Service":  95,
		"Unlocking":         90,
		"Activation":        90,
		"Trade In":          88,
		"Switching":         85,
		"BYOD":              85,
		"International":     82,
		"Connected Devices": 80,
		"Comparisons":       75,
		"Reviews":           72,
		"Perks":             70,
		"Accessories":       68,
		"SIM Cards":         67,
		"Billing":           66,
		"Retail":            65,
		"Local":             62,
		"Coverage":          60,
		"Pricing":           58,
		"Deals":             55,
		"Mobile Plans":      40,
		"Devices":           35,
		"Features":          30,
		"Support":           25,
		"FAQ":               20,
		"Carriers":          15,
	}
}
