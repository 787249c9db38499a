package catalog

import "moyenne-bot/api/internal/i18n"

func mkSub(id, ar, fr, en string, coeff float64) Subject {
	return Subject{ID: id, Name: i18n.T(ar, fr, en), Coefficient: coeff}
}

// Common subjects, parameterized by coefficient.
func arabic(c float64) Subject  { return mkSub("arab", "اللغة العربية", "Langue Arabe", "Arabic", c) }
func math(c float64) Subject    { return mkSub("math", "الرياضيات", "Mathématiques", "Mathematics", c) }
func physics(c float64) Subject { return mkSub("phys", "العلوم الفيزيائية", "Physique", "Physics", c) }
func science(c float64) Subject {
	return mkSub("scien", "علوم الطبيعة والحياة", "Sciences Naturelles", "Natural Sciences", c)
}
func french(c float64) Subject  { return mkSub("fren", "الفرنسية", "Français", "French", c) }
func english(c float64) Subject { return mkSub("eng", "الإنجليزية", "Anglais", "English", c) }
func islamic(c float64) Subject {
	return mkSub("islam", "العلوم الإسلامية", "Sciences Islamiques", "Islamic Sciences", c)
}
func history(c float64) Subject {
	return mkSub("hist", "التاريخ والجغرافيا", "Histoire-Géo", "History-Geo", c)
}
func civics(c float64) Subject { return mkSub("civ", "التربية المدنية", "Éducation Civique", "Civics", c) }
func sport(c float64) Subject {
	return mkSub("sport", "التربية البدنية", "Éducation Physique", "Physical Education", c)
}
func philo(c float64) Subject { return mkSub("philo", "الفلسفة", "Philosophie", "Philosophy", c) }
func techMech(c float64) Subject {
	return mkSub("tm", "هندسة ميكانيكية", "Génie Mécanique", "Mechanical Eng.", c)
}
func techGen(c float64) Subject {
	return mkSub("tech", "تكنولوجيا (هندسة)", "Génie (Méca/Elec/Civil)", "Technology (Eng)", c)
}
func econ(c float64) Subject    { return mkSub("eco", "تسيير واقتصاد", "Management", "Management & Economy", c) }
func law(c float64) Subject     { return mkSub("law", "القانون", "Droit", "Law", c) }
func amazigh(c float64) Subject { return mkSub("amz", "الأمازيغية", "Tamazight", "Tamazight", c) }
func art(c float64) Subject     { return mkSub("art", "تربية فنية/موسيقية", "Art/Musique", "Art/Music", c) }
func comp(c float64) Subject    { return mkSub("inf", "إعلام آلي", "Informatique", "Computer Science", c) }

func subs(s ...Subject) []Subject { return s }

var cemCommon = i18n.T("جذع مشترك", "Tronc Commun", "General")

var educationSystem = []Level{
	// CEM (middle school)
	{
		ID:   "cem_1",
		Name: i18n.T("السنة الأولى متوسط", "1ère Année Moyenne (CEM)", "1st Year Middle School"),
		Streams: []Stream{{
			ID: "cem_common", Name: cemCommon,
			DefaultSubjects: subs(arabic(2), math(2), physics(1), science(1), french(1), english(1), islamic(1), history(1), civics(1), art(1), sport(1), amazigh(1), comp(1)),
		}},
	},
	{
		ID:   "cem_2",
		Name: i18n.T("السنة الثانية متوسط", "2ème Année Moyenne (CEM)", "2nd Year Middle School"),
		Streams: []Stream{{
			ID: "cem_common", Name: cemCommon,
			DefaultSubjects: subs(arabic(3), math(3), physics(2), science(2), french(2), english(1), islamic(1), history(2), civics(1), art(1), sport(1)),
		}},
	},
	{
		ID:   "cem_3",
		Name: i18n.T("السنة الثالثة متوسط", "3ème Année Moyenne (CEM)", "3rd Year Middle School"),
		Streams: []Stream{{
			ID: "cem_common", Name: cemCommon,
			DefaultSubjects: subs(arabic(3), math(3), physics(2), science(2), french(2), english(1), islamic(1), history(2), civics(1), art(1), sport(1)),
		}},
	},
	{
		ID:   "cem_4",
		Name: i18n.T("السنة الرابعة متوسط (BEM)", "4ème Année Moyenne (BEM)", "4th Year Middle School (BEM)"),
		Streams: []Stream{{
			ID: "cem_common", Name: cemCommon,
			DefaultSubjects: subs(arabic(5), math(4), physics(2), science(2), french(3), english(2), islamic(2), history(3), civics(1), art(1), sport(1), amazigh(2)),
		}},
	},

	// Lycée (high school)
	{
		ID:   "lyc_1",
		Name: i18n.T("السنة الأولى ثانوي", "1ère Année Secondaire", "1st Year High School"),
		Streams: []Stream{
			{
				ID: "tc_st", Name: i18n.T("جذع مشترك علوم وتكنولوجيا", "Tronc Commun Sciences", "Common Core Science"),
				DefaultSubjects: subs(math(5), physics(4), science(4), arabic(3), french(2), english(2), islamic(2), history(2), comp(2), techMech(2), sport(1)),
			},
			{
				ID: "tc_l", Name: i18n.T("جذع مشترك آداب", "Tronc Commun Lettres", "Common Core Literature"),
				DefaultSubjects: subs(arabic(5), history(3), islamic(2), french(3), english(3), math(2), physics(2), science(2), comp(2), sport(1)),
			},
		},
	},
	{
		ID:   "lyc_2",
		Name: i18n.T("السنة الثانية ثانوي", "2ème Année Secondaire", "2nd Year High School"),
		Streams: []Stream{
			{
				ID: "2as_s", Name: i18n.T("علوم تجريبية", "Sciences Expérimentales", "Experimental Sciences"),
				DefaultSubjects: subs(math(5), physics(5), science(5), arabic(2), french(2), english(2), history(2), islamic(1), sport(1)),
			},
			{
				ID: "2as_m", Name: i18n.T("رياضيات", "Mathématiques", "Mathematics"),
				DefaultSubjects: subs(math(7), physics(6), science(2), arabic(2), french(2), english(2), history(2), islamic(1), sport(1)),
			},
			{
				ID: "2as_tm", Name: i18n.T("تقني رياضي", "Technique Mathématique", "Technical Math"),
				DefaultSubjects: subs(techGen(6), math(6), physics(6), arabic(2), french(2), english(2), history(2), islamic(1), sport(1)),
			},
			{
				ID: "2as_ge", Name: i18n.T("تسيير واقتصاد", "Gestion et Économie", "Management & Economy"),
				DefaultSubjects: subs(econ(5), law(2), math(4), history(4), arabic(2), french(2), english(2), islamic(1), sport(1)),
			},
			{
				ID: "2as_lp", Name: i18n.T("آداب وفلسفة", "Lettres et Philosophie", "Literature & Philosophy"),
				DefaultSubjects: subs(arabic(5), philo(2), history(4), french(3), english(3), islamic(2), math(2), science(2), sport(1)),
			},
			{
				ID: "2as_le", Name: i18n.T("لغات أجنبية", "Langues Étrangères", "Foreign Languages"),
				DefaultSubjects: subs(mkSub("sp_gr", "لغة أجنبية 3", "Langue 3", "3rd Language", 4), arabic(4), french(4), english(4), history(2), islamic(2), math(2), philo(2), science(2), sport(1)),
			},
		},
	},
	{
		ID:   "lyc_3",
		Name: i18n.T("السنة الثالثة ثانوي (BAC)", "3ème Année Secondaire (BAC)", "3rd Year High School (BAC)"),
		Streams: []Stream{
			{
				ID: "s_exp", Name: i18n.T("علوم تجريبية", "Sciences Expérimentales", "Experimental Sciences"),
				DefaultSubjects: subs(science(6), physics(5), math(5), arabic(3), french(2), english(2), philo(2), history(2), islamic(2), sport(1)),
			},
			{
				ID: "math", Name: i18n.T("رياضيات", "Mathématiques", "Mathematics"),
				DefaultSubjects: subs(math(7), physics(6), science(2), arabic(3), french(2), english(2), philo(2), history(2), islamic(2), sport(1)),
			},
			{
				ID: "tm", Name: i18n.T("تقني رياضي (هـ.ميكانيكية)", "Tech Math (G.Mécanique)", "Tech Math (Mech)"),
				DefaultSubjects: subs(techMech(6), math(6), physics(6), arabic(3), french(2), english(2), philo(2), history(2), islamic(2), sport(1)),
			},
			{
				ID: "ge", Name: i18n.T("تسيير واقتصاد", "Gestion et Économie", "Management & Economy"),
				DefaultSubjects: subs(econ(6), law(2), math(5), history(4), arabic(3), french(2), english(2), philo(2), islamic(2), sport(1)),
			},
			{
				ID: "lp", Name: i18n.T("آداب وفلسفة", "Lettres et Philosophie", "Literature & Philosophy"),
				DefaultSubjects: subs(philo(6), arabic(6), history(4), french(3), english(3), islamic(2), math(2), sport(1)),
			},
			{
				ID: "lang", Name: i18n.T("لغات أجنبية", "Langues Étrangères", "Foreign Languages"),
				DefaultSubjects: subs(mkSub("sp_gr", "لغة أجنبية 3 (اسبانية/المانية)", "Langue 3 (Esp/All)", "3rd Language", 5), arabic(5), french(5), english(5), history(2), islamic(2), philo(2), math(2), sport(1)),
			},
		},
	},
}
