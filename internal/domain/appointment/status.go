package appointment

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsActive reports whether the status holds the doctor's time slot.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Actors
// ===============================

type Actor string

const (
	ActorDoctor  Actor = "doctor"
	ActorPatient Actor = "patient"
	ActorAdmin   Actor = "admin"
	// ActorSystem is used by scheduled sweeps.
	ActorSystem Actor = "system"
)

// ===============================
// Transition table
// ===============================

//	pending   → confirmed  (doctor)
//	pending   → cancelled  (doctor, patient)
//	confirmed → cancelled  (doctor, patient)
//	confirmed → completed  (doctor, once the appointment time has come)
//	pending   → completed  (system sweep, appointment time has passed)
//	confirmed → completed  (system sweep, appointment time has passed)
var transitions = map[Status]map[Status][]Actor{
	StatusPending: {
		StatusConfirmed: {ActorDoctor},
		StatusCancelled: {ActorDoctor, ActorPatient},
		StatusCompleted: {ActorSystem},
	},
	StatusConfirmed: {
		StatusCancelled: {ActorDoctor, ActorPatient},
		StatusCompleted: {ActorDoctor, ActorSystem},
	},
}

// CanTransition checks the table only; time and lead-time guards are
// applied by Transition.
func CanTransition(from, to Status, actor Actor) bool {
	if actor == ActorAdmin {
		actor = ActorDoctor
	}

	for _, a := range transitions[from][to] {
		if a == actor {
			return true
		}
	}
	return false
}
