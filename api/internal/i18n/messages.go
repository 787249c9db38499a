package i18n

// UI strings. Each value is built with T, so adding a language to Text breaks
// compilation until every message carries it.
var (
	Title         = T("حساب المعدل الفصلي - الجزائر", "Calculateur de Moyenne - Algérie", "Algerian GPA Calculator")
	Subtitle      = T("لجميع الأطوار التعليمية مع مستشار الذكاء الاصطناعي", "Pour tous les niveaux avec conseiller IA", "For all levels with AI Advisor")
	SelectLevel   = T("اختر المستوى الدراسي", "Sélectionnez le niveau", "Select Level")
	SelectStream  = T("اختر الشعبة", "Sélectionnez la filière", "Select Stream")
	SubjectLabel  = T("المادة", "Matière", "Subject")
	CoeffLabel    = T("المعامل", "Coeff", "Coeff")
	GradeLabel    = T("العلامة /20", "Note /20", "Grade /20")
	Actions       = T("إجراءات", "Actions", "Actions")
	AddSubject    = T("إضافة مادة", "Ajouter une matière", "Add Subject")
	CalcAverage   = T("حساب المعدل", "Calculer la moyenne", "Calculate Average")
	YourAverage   = T("معدلك الفصلي هو:", "Votre moyenne trimestrielle est :", "Your Semester Average is:")
	SetGoal       = T("حدد هدفك (المعدل المرغوب)", "Fixez votre objectif (Moyenne visée)", "Set your Goal (Target GPA)")
	GetAIAdvice   = T("تحليل النتائج ونصائح للتحسين", "Analyser les résultats et obtenir des conseils", "Analyze Results & Get Tips")
	LoadingAI     = T("جاري استشارة الذكاء الاصطناعي...", "Consultation de l'IA en cours...", "Consulting AI...")
	Reset         = T("بداية جديدة", "Recommencer", "Start Over")
	CustomSubject = T("مادة إضافية", "Matière supp.", "Custom Subject")
	NewSubject    = T("مادة جديدة", "Nouvelle Matière", "New Subject")
	Save          = T("حفظ التقدم", "Sauvegarder", "Save Progress")
	Resume        = T("متابعة الجلسة السابقة", "Reprendre la session", "Resume Previous Session")
	SavedMsg      = T("تم الحفظ بنجاح", "Sauvegardé avec succès", "Saved Successfully")
	Restore       = T("استرجاع المواد الأصلية", "Rétablir défaut", "Restore Defaults")
	Intro         = T(
		"ابدأ باختيار الطور الدراسي لحساب معدلك والحصول على نصائح مخصصة لتحسين نتائجك.",
		"Commencez par sélectionner votre niveau pour calculer votre moyenne et obtenir des conseils personnalisés.",
		"Start by selecting your education level to calculate your GPA and get personalized tips.",
	)

	AdvisorTitle  = T("المستشار الذكي", "Conseiller IA", "AI Advisor")
	AnalysisTitle = T("التحليل", "Analyse", "Analysis")
	PlanTitle     = T("خطة العمل", "Plan d'action", "Action Plan")
	AdviceError   = T("عذرا، حدث خطأ أثناء تحليل النتائج.", "Désolé, une erreur est survenue lors de l'analyse.", "Error analyzing results.")

	Yes              = T("نعم", "Oui", "Yes")
	No               = T("لا", "Non", "No")
	Confirm          = T("هل أنت متأكد؟", "Êtes-vous sûr ?", "Are you sure?")
	NothingToResume  = T("لا توجد جلسة محفوظة.", "Aucune session sauvegardée.", "No saved session.")
	SelectFirst      = T("اختر المستوى والشعبة أولا.", "Choisissez d'abord le niveau et la filière.", "Select a level and stream first.")
	TargetRequired   = T("حدد المعدل المرغوب أولا: /target 15", "Fixez d'abord l'objectif : /target 15", "Set a target first: /target 15")
	TargetSet        = T("تم تحديد الهدف:", "Objectif fixé :", "Target set:")
	EnterGrade       = T("أرسل العلامة (0-20) للمادة:", "Envoyez la note (0-20) pour :", "Send the grade (0-20) for:")
	EnterName        = T("أرسل اسم المادة الجديدة:", "Envoyez le nom de la matière :", "Send the subject name:")
	UnknownSubject   = T("مادة غير معروفة.", "Matière inconnue.", "Unknown subject.")
	InvalidCoeff     = T("المعامل يجب أن يكون عددا موجبا.", "Le coefficient doit être un nombre positif.", "Coefficient must be a positive number.")
	AdviceInFlight   = T("الطلب قيد المعالجة، انتظر قليلا.", "Une demande est déjà en cours.", "A request is already in progress.")
	UnknownCommand   = T("أمر غير معروف. /help", "Commande inconnue. /help", "Unknown command. /help")
	LanguageSwitched = T("تم تغيير اللغة.", "Langue changée.", "Language changed.")
	SaveFailed       = T("تعذر الحفظ، حاول مرة أخرى.", "Échec de la sauvegarde, réessayez.", "Could not save, try again.")
	Help             = T(
		"/start - البداية\n/resume - متابعة الجلسة\n/target 15 - الهدف\n/grade math 14.5 - علامة\n/coeff math 3 - معامل\n/add - إضافة مادة\n/rename id الاسم - تسمية\n/remove id - حذف\n/save - حفظ\n/advice - نصائح\n/lang ar|fr|en - اللغة",
		"/start - début\n/resume - reprendre\n/target 15 - objectif\n/grade math 14.5 - note\n/coeff math 3 - coefficient\n/add - ajouter une matière\n/rename id Nom - renommer\n/remove id - supprimer\n/save - sauvegarder\n/advice - conseils\n/lang ar|fr|en - langue",
		"/start - start\n/resume - resume session\n/target 15 - goal\n/grade math 14.5 - grade\n/coeff math 3 - coefficient\n/add - add subject\n/rename id Name - rename\n/remove id - remove\n/save - save\n/advice - AI tips\n/lang ar|fr|en - language",
	)
)
