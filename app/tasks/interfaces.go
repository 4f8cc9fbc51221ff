package tasks

// TaskSchedulerInterface is used by the chat commands and the HTTP API to
// trigger passes without touching the dedup store themselves.
//
//	scheduler := NewScheduler(factory, reloadInterval)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueReload(TriggerCommand)
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	EnqueueReload(trigger Trigger) error
	EnqueueCleanup(trigger Trigger) error
	Stats() Stats
}
