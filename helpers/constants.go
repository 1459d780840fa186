package helpers

const EventsPageSize = 15
