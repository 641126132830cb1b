package service

// Fallback messages used when the Gateway gives no message of its own
const (
	MsgFetchClients = "Failed to fetch clients"
	MsgFetchClient  = "Failed to fetch client"
	MsgCreateClient = "Failed to create client"
	MsgUpdateClient = "Failed to update client"
	MsgDeleteClient = "Failed to delete client"

	MsgFetchTasks = "Failed to fetch tasks"
	MsgFetchTask  = "Failed to fetch task"
	MsgCreateTask = "Failed to create task"
	MsgUpdateTask = "Failed to update task"
	MsgDeleteTask = "Failed to delete task"

	MsgFetchEvents = "Failed to fetch calendar events"
	MsgFetchEvent  = "Failed to fetch calendar event"
	MsgCreateEvent = "Failed to create calendar event"
	MsgUpdateEvent = "Failed to update calendar event"
	MsgDeleteEvent = "Failed to delete calendar event"
)

type fallbacks struct {
	list, get, create, update, delete string
}

var (
	clientMessages = fallbacks{MsgFetchClients, MsgFetchClient, MsgCreateClient, MsgUpdateClient, MsgDeleteClient}
	taskMessages   = fallbacks{MsgFetchTasks, MsgFetchTask, MsgCreateTask, MsgUpdateTask, MsgDeleteTask}
	eventMessages  = fallbacks{MsgFetchEvents, MsgFetchEvent, MsgCreateEvent, MsgUpdateEvent, MsgDeleteEvent}
)
