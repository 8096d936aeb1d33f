package domain

// Column names of the admissions export. The names are the raw field names
// of the source system and are part of the output contract: downstream
// model-training consumers select on them verbatim.
const (
	// Opportunity (master) table
	ColOpportunityID = "ID"
	ColAccountRef    = "ACCOUNTID"
	ColContactID     = "ID18__PC"
	ColAcademicYear  = "PL_CURSO_ACADEMICO"
	ColStageName     = "STAGENAME"
	ColSubStage      = "PL_SUBETAPA"
	ColDeadline      = "PL_PLAZO_ADMISION"

	// Account table
	ColAccountID = "ID18"

	// Stage history table
	ColHistoryOpportunity = "LK_Oportunidad__c"
	ColHistoryStage       = "PL_Etapa__c"
	ColHistorySubStage    = "PL_Subetapa__c"
	ColCreatedDate        = "CreatedDate"
	ColStageEndDate       = "Fecha_fin_etapa__c"

	// Activity history table
	ColActivityContact = "ContactId"
	ColActivityStatus  = "Estado_del_miembro__c"
	ColActivityCourse  = "Campaign.AcademicCourse__c"
	ColActivityType    = "Campaign.LK_tipoActividadPromocion__r.Name"

	// Economic record table
	ColEconomicOpportunity = "LK_oportunidad__c"
	ColFamilyIncome        = "FO_rentaFam_ges__c"
	ColOrdinaryPrice       = "CU_precioOrdinario_def__c"
	ColAppliedPrice        = "CU_precioAplicado_def__c"
)

// Derived columns produced by the pipeline
const (
	ColTarget        = "target"
	ColUnenrolled    = "desmatriculado"
	ColDeadlineClean = "PLAZO_ADMISION_LIMPIO"
	ColPaidPercent   = "PORCENTAJE_PAGADO_FINAL"
	ColStageDays     = "tiempo_etapa_dias"
	ColStageGapDays  = "tiempo_entre_etapas_dias"
	ColAttendedAcc   = "num_asistencias_acum"
	ColRequestedAcc  = "num_solicitudes_acum"
)

// Funnel stage and sub-stage literals used by the labeler and the leakage
// milestones. These match the source system's picklist values exactly,
// accents included.
const (
	StageEnrollment         = "Matrícula OOGG"
	SubStageFormalized      = "Formalizada"
	SubStageUnenrolledEvent = "Desmatriculado"

	StageAdmissionTests = "Pruebas de admisión"
	SubStageTestsGraded = "Pruebas calificadas"

	StageEnrollmentStart   = "Matrícula admisión"
	SubStageMinimumPayment = "Pago Mínimo"
)

// Activity member statuses that feed the progressive counters
const (
	ActivityStatusAttended        = "asiste"
	ActivityStatusRequested       = "solicitado"
	ActivityStatusRequestedAttend = "solicita asistir"
)

// AcademicLeakColumns are the fields that only become legitimately known
// once the admission tests have been graded.
var AcademicLeakColumns = []string{
	"NU_NOTA_MEDIA_ADMISION",
	"CH_PRUEBAS_CALIFICADAS",
	"NU_RESULTADO_ADMISION_PUNTOS",
	"PL_RESOLUCION_DEFINITIVA",
}

// EconomicLeakColumns are the fields that only become legitimately known
// once enrollment payment has started.
var EconomicLeakColumns = []string{
	"MINIMUMPAYMENTPAYED",
	"PAID_AMOUNT",
	"PAID_PERCENT",
	"CH_PAGO_SUPERIOR",
	"CH_MATRICULA_SUJETA_BECA",
	"CH_AYUDA_FINANCIACION",
	"CU_IMPORTE_TOTAL",
}

// FinalColumns is the fixed, ordered column set of the modeling dataset.
// Order matters: it is part of the contract with downstream consumers.
var FinalColumns = []string{
	ColAccountRef, ColOpportunityID, ColContactID, ColTarget, ColUnenrolled,
	ColAcademicYear, "CH_NACIONAL",
	"NU_NOTA_MEDIA_ADMISION", "NU_NOTA_MEDIA_1_BACH__PC", "CH_PRUEBAS_CALIFICADAS",
	"NU_RESULTADO_ADMISION_PUNTOS", "PL_RESOLUCION_DEFINITIVA", "TITULACION", "CENTROENSENANZA",
	"MINIMUMPAYMENTPAYED", "PAID_AMOUNT", "PAID_PERCENT", "CH_PAGO_SUPERIOR",
	"CH_MATRICULA_SUJETA_BECA", "CH_AYUDA_FINANCIACION", "CU_IMPORTE_TOTAL",
	"CH_VISITACAMPUS__PC", "CH_ENTREVISTA_PERSONAL__PC", "ACC_DTT_FECHAULTIMAACTIVIDAD",
	"NU_PREFERENCIA", ColStageName, ColSubStage,
	"CH_HIJO_EMPLEADO__PC", "CH_HIJO_PROFESOR_ASOCIADO__PC", "CH_HERMANOS_ESTUDIANDO_UNAV__P",
	"CH_HIJO_MEDICO__PC", "YEARPERSONBIRTHDATE", "NAMEX", "CH_FAMILIA_NUMEROSA__PC",
	"PL_SITUACION_SOCIO_ECONOMICA", "LEADSOURCE", "PL_ORIGEN_DE_SOLICITUD",
	ColDeadline, "RECORDTYPENAME", ColDeadlineClean, ColFamilyIncome, ColOrdinaryPrice,
	ColAppliedPrice, ColPaidPercent, ColStageDays, ColStageGapDays,
	ColAttendedAcc, ColRequestedAcc,
}
