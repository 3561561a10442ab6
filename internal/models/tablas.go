package models

// Nombres de tabla fijos: el pluralizador de gorm es inglés y arruinaría
// los nombres en español que usan las consultas con join.

func (Usuario) TableName() string         { return "usuarios" }
func (Atleta) TableName() string          { return "atletas" }
func (Coach) TableName() string           { return "coaches" }
func (AsignacionCoach) TableName() string { return "asignaciones_coach" }
func (Plan) TableName() string            { return "planes" }
func (Ingreso) TableName() string         { return "ingresos" }
func (Egreso) TableName() string          { return "egresos" }
func (Rutina) TableName() string          { return "rutinas" }
func (Ejercicio) TableName() string       { return "ejercicios" }
func (RutinaEjercicio) TableName() string { return "rutina_ejercicios" }
